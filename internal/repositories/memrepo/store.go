// Package memrepo keeps every repository in process memory. It backs
// STORAGE_DRIVER=memory for local runs and the service tests; state is lost
// on restart.
package memrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
)

type state struct {
	accounts map[uuid.UUID]*db_models.Account
	sessions map[string]*db_models.Session
	dreams   map[uuid.UUID]*db_models.Dream
	// order keeps dream ids in insertion order to break created_at ties.
	order  []uuid.UUID
	debits map[uuid.UUID]*db_models.QuotaDebit
}

func newState() *state {
	return &state{
		accounts: make(map[uuid.UUID]*db_models.Account),
		sessions: make(map[string]*db_models.Session),
		dreams:   make(map[uuid.UUID]*db_models.Dream),
		debits:   make(map[uuid.UUID]*db_models.QuotaDebit),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range s.sessions {
		ss := *v
		c.sessions[k] = &ss
	}
	for k, v := range s.dreams {
		c.dreams[k] = copyDream(v)
	}
	c.order = append([]uuid.UUID(nil), s.order...)
	for k, v := range s.debits {
		d := *v
		c.debits[k] = &d
	}
	return c
}

// Store serialises all access behind one mutex, which also makes each
// transaction fully isolated.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Accounts() repositories.AccountRepository { return &accountRepo{v: s.view(false)} }
func (s *Store) Sessions() repositories.SessionRepository { return &sessionRepo{v: s.view(false)} }
func (s *Store) Dreams() repositories.DreamRepository     { return &dreamRepo{v: s.view(false)} }
func (s *Store) Quotas() repositories.QuotaRepository     { return &quotaRepo{v: s.view(false)} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Manager) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&txManager{v: s.view(true)}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) view(held bool) *view {
	return &view{store: s, held: held}
}

// view is a handle on the store; inside a transaction the lock is already
// held and must not be taken again.
type view struct {
	store *Store
	held  bool
}

func (v *view) lock() (*state, func()) {
	if v.held {
		return v.store.st, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

type txManager struct {
	v *view
}

func (t *txManager) Accounts() repositories.AccountRepository { return &accountRepo{v: t.v} }
func (t *txManager) Sessions() repositories.SessionRepository { return &sessionRepo{v: t.v} }
func (t *txManager) Dreams() repositories.DreamRepository     { return &dreamRepo{v: t.v} }
func (t *txManager) Quotas() repositories.QuotaRepository     { return &quotaRepo{v: t.v} }
func (t *txManager) Ping(ctx context.Context) error           { return ctx.Err() }

// Transaction inside a transaction joins the outer one.
func (t *txManager) Transaction(ctx context.Context, fn func(tx repositories.Manager) error) error {
	return fn(t)
}

var (
	_ repositories.Manager = (*Store)(nil)
	_ repositories.Manager = (*txManager)(nil)
)
