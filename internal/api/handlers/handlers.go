package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/expense-tracker/internal/api/middleware"
	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/export"
	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/tracker"
)

// Tracker is the store surface the HTTP layer consumes.
type Tracker interface {
	SignIn(ctx context.Context, username, password string) error
	SignOut(ctx context.Context)
	IsAuthenticated() bool
	IsLoading() bool
	Transactions() []domain.Transaction
	Balance() decimal.Decimal
	AddTransaction(t domain.NewTransaction) domain.Transaction
	GetTransaction(id string) (domain.Transaction, bool)
}

var _ Tracker = (*tracker.Store)(nil)

// TransactionView is a transaction with its display strings.
type TransactionView struct {
	domain.Transaction
	AmountFormatted string `json:"amount_formatted"`
	DateFormatted   string `json:"date_formatted"`
	TypeColor       string `json:"type_color"`
}

// NewTransactionView decorates t with formatted fields.
func NewTransactionView(t domain.Transaction) TransactionView {
	return TransactionView{
		Transaction:     t,
		AmountFormatted: domain.FormatCurrency(t.Amount),
		DateFormatted:   domain.FormatDate(t.Date),
		TypeColor:       t.Type.Color(),
	}
}

// AuthHandler handles sign-in, sign-out and session status.
type AuthHandler struct {
	store Tracker
	log   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store Tracker, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		store: store,
		log:   log,
	}
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.store.SignIn(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, tracker.ErrInvalidCredentials):
		middleware.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	case err != nil:
		h.log.Error().Err(err).Msg("Failed to sign in")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Unable to start session",
		})
	default:
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.store.SignOut(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Session handles GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{
		"is_authenticated": h.store.IsAuthenticated(),
		"is_loading":       h.store.IsLoading(),
	})
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store Tracker
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store Tracker, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store: store,
		log:   log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns := h.store.Transactions()
	balance := domain.Balance(txns)

	views := make([]TransactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, NewTransactionView(t))
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions":      views,
		"count":             len(views),
		"balance":           balance.StringFixed(2),
		"balance_formatted": domain.FormatCurrency(balance),
	})
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft := req.draft()
	res := domain.Validate(draft)
	if !res.IsValid {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "Please correct the highlighted fields",
			"errors": res.Errors,
		})
		return
	}

	parsed, err := draft.Parse()
	if err != nil {
		h.log.Error().Err(err).Msg("Validated draft failed to parse")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	txn := h.store.AddTransaction(parsed)
	log := logger.FromContext(r.Context())
	log.Info().
		Str("transaction_id", txn.ID).
		Msg("Transaction created")

	middleware.WriteJSON(w, http.StatusCreated, NewTransactionView(txn))
}

// GetTransaction handles GET /api/transactions/{id}
func (h *TransactionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	txn, ok := h.store.GetTransaction(id)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, NewTransactionView(txn))
}

// ExportTransactions handles GET /api/transactions/export.csv
func (h *TransactionsHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}
	if err := export.WriteCSV(buf, h.store.Transactions()); err != nil {
		h.log.Error().Err(err).Msg("Failed to export transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to export transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// draftRequest accepts the amount as either a JSON string or number.
type draftRequest struct {
	Date        string     `json:"date"`
	Amount      flexString `json:"amount"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
}

func (r draftRequest) draft() domain.Draft {
	return domain.Draft{
		Date:        r.Date,
		Amount:      string(r.Amount),
		Description: r.Description,
		Location:    r.Location,
		Type:        r.Type,
		Category:    r.Category,
	}
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
