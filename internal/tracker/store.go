// Package tracker holds the canonical in-memory state of an expense-tracking
// session: the authentication flag and the newest-first transaction list.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/session"
)

// ErrInvalidCredentials is returned by SignIn when the username or password is wrong.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// State is a point-in-time view of the store delivered to observers.
type State struct {
	IsAuthenticated bool                 `json:"is_authenticated"`
	IsLoading       bool                 `json:"is_loading"`
	Transactions    []domain.Transaction `json:"transactions"`
	Balance         decimal.Decimal      `json:"balance"`
}

// Listener receives a State after every mutation.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store owns the session flag and the transaction collection.
// All methods are safe for concurrent use.
type Store struct {
	kv     session.KeyValueStore
	log    zerolog.Logger
	creds  Credentials
	nextID func() string

	// authMu serializes sign-in, sign-out and restore including their
	// persistence calls; mu guards the fields below.
	authMu sync.Mutex
	mu     sync.RWMutex

	authenticated bool
	loading       bool
	transactions  []domain.Transaction
	ids           map[string]struct{}

	subs    []subscription
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for session and transaction events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithCredentials replaces the accepted credential pair.
func WithCredentials(c Credentials) Option {
	return func(s *Store) { s.creds = c }
}

// WithIDGenerator replaces the transaction ID source.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.nextID = next }
}

// WithSeed replaces the initial transactions. They are kept in the given order.
func WithSeed(txns []domain.Transaction) Option {
	return func(s *Store) {
		s.transactions = append([]domain.Transaction(nil), txns...)
	}
}

// New creates a store seeded with the example transactions. The store
// reports IsLoading until RestoreSession has run.
func New(kv session.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		log:          zerolog.Nop(),
		nextID:       newID,
		loading:      true,
		transactions: domain.SeedTransactions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.creds.PasswordHash == nil {
		s.creds = DefaultCredentials()
	}

	s.ids = make(map[string]struct{}, len(s.transactions))
	for _, t := range s.transactions {
		s.ids[t.ID] = struct{}{}
	}
	return s
}

// newID returns a time-ordered UUID, falling back to a random one.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// RestoreSession reads the persisted session flag. A read failure is logged
// and leaves the user signed out. IsLoading is false once it returns.
func (s *Store) RestoreSession(ctx context.Context) {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	authenticated := false
	value, ok, err := s.kv.Get(ctx, session.AuthKey)
	switch {
	case err != nil:
		s.log.Error().Err(err).Msg("Error checking auth status")
	case ok && value == session.AuthValue:
		authenticated = true
	}

	s.mu.Lock()
	s.authenticated = authenticated
	s.loading = false
	s.mu.Unlock()

	s.log.Info().Bool("authenticated", authenticated).Msg("Session restored")
	s.notify()
}

// SignIn checks the credentials and, on success, persists the session flag.
// Wrong credentials return ErrInvalidCredentials and change nothing. If the
// flag cannot be persisted the user stays signed out.
func (s *Store) SignIn(ctx context.Context, username, password string) error {
	if !s.creds.Match(username, password) {
		s.log.Warn().Str("username", username).Msg("Sign-in rejected")
		return ErrInvalidCredentials
	}

	s.authMu.Lock()
	defer s.authMu.Unlock()

	if err := s.kv.Set(ctx, session.AuthKey, session.AuthValue); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist session")
		return fmt.Errorf("SignIn: persisting session: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	s.log.Info().Str("username", username).Msg("Signed in")
	s.notify()
	return nil
}

// SignOut clears the session flag in memory and in storage.
// A storage failure is logged; the in-memory flag is cleared regardless.
func (s *Store) SignOut(ctx context.Context) {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	s.mu.Lock()
	s.authenticated = false
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, session.AuthKey); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear persisted session")
	}

	s.log.Info().Msg("Signed out")
	s.notify()
}

// AddTransaction assigns a fresh ID to t, prepends it to the collection and
// returns the stored record. The caller validates t first.
func (s *Store) AddTransaction(t domain.NewTransaction) domain.Transaction {
	s.mu.Lock()
	id := s.nextID()
	for {
		if _, taken := s.ids[id]; !taken {
			break
		}
		id = s.nextID()
	}

	txn := domain.Transaction{ID: id, NewTransaction: t}
	s.ids[id] = struct{}{}
	s.transactions = append([]domain.Transaction{txn}, s.transactions...)
	s.mu.Unlock()

	s.log.Info().
		Str("transaction_id", id).
		Str("type", string(t.Type)).
		Str("category", string(t.Category)).
		Str("amount", t.Amount.StringFixed(2)).
		Msg("Transaction added")

	s.notify()
	return txn
}

// GetTransaction looks up a transaction by ID. ok is false when none matches.
func (s *Store) GetTransaction(id string) (domain.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

// Transactions returns a newest-first copy of the collection.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Transaction(nil), s.transactions...)
}

// Balance sums credits minus every other transaction.
func (s *Store) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Balance(s.transactions)
}

// IsAuthenticated reports the in-memory session flag.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.authenticated
}

// IsLoading reports whether RestoreSession has yet to complete.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		IsAuthenticated: s.authenticated,
		IsLoading:       s.loading,
		Transactions:    append([]domain.Transaction(nil), s.transactions...),
		Balance:         domain.Balance(s.transactions),
	}
}

// Subscribe registers fn to be called with the new state after every
// mutation. Listeners run synchronously in registration order. The returned
// function removes the listener.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify delivers a snapshot to every listener. It must be called without mu held.
func (s *Store) notify() {
	s.mu.RLock()
	state := s.snapshotLocked()
	subs := append([]subscription(nil), s.subs...)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}
