// Package api wires the HTTP routes and middleware around a tracker store.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-tracker/internal/api/handlers"
	"github.com/dvloznov/expense-tracker/internal/api/middleware"
)

// NewRouter builds the full handler chain for the API server.
func NewRouter(store handlers.Tracker, log zerolog.Logger, corsOrigin string) http.Handler {
	authHandler := handlers.NewAuthHandler(store, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	requireSession := middleware.RequireSession(store)

	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})

	// Session endpoints
	r.HandleFunc("/api/auth/signin", authHandler.SignIn).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signout", authHandler.SignOut).Methods(http.MethodPost)
	r.HandleFunc("/api/session", authHandler.Session).Methods(http.MethodGet)

	// Transactions endpoints; export.csv must precede the {id} route.
	r.Handle("/api/transactions", requireSession(http.HandlerFunc(transactionsHandler.ListTransactions))).Methods(http.MethodGet)
	r.Handle("/api/transactions", requireSession(http.HandlerFunc(transactionsHandler.CreateTransaction))).Methods(http.MethodPost)
	r.Handle("/api/transactions/export.csv", requireSession(http.HandlerFunc(transactionsHandler.ExportTransactions))).Methods(http.MethodGet)
	r.Handle("/api/transactions/{id}", requireSession(http.HandlerFunc(transactionsHandler.GetTransaction))).Methods(http.MethodGet)

	// Health check endpoint
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(corsOrigin)(r),
			),
		),
	)
}
