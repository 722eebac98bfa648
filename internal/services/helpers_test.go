package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/internal/repositories/memrepo"
	"lucidly/pkg/ai"
	"lucidly/pkg/utils"
)

const testQuota = 3

type fixture struct {
	store    *memrepo.Store
	sessions SessionServiceInterface
	ledger   QuotaLedgerInterface
	accounts AccountServiceInterface
	dreams   DreamServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	store := memrepo.NewStore()
	sessions := NewSessionService(store, utils.NewTokenSigner("test-secret", time.Hour), log)
	ledger := NewQuotaLedger(store, log)
	return &fixture{
		store:    store,
		sessions: sessions,
		ledger:   ledger,
		accounts: NewAccountService(store, sessions, ledger, utils.NewPasswordHasher(1000), testQuota, log),
		dreams:   NewDreamService(store),
	}
}

func (f *fixture) enrichment(providers Providers, timeout time.Duration) EnrichmentServiceInterface {
	return NewEnrichmentService(f.store, f.ledger, providers, timeout, zap.NewNop())
}

// register signs up and returns the stored account.
func (f *fixture) register(t *testing.T, email string) (*db_models.Account, string) {
	t.Helper()
	ctx := context.Background()
	auth, err := f.accounts.Register(ctx, request_models.SignUpRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	account, err := f.sessions.Resolve(ctx, auth.Token)
	require.NoError(t, err)
	return account, auth.Token
}

func (f *fixture) dream(t *testing.T, owner *db_models.Account, content string) string {
	t.Helper()
	resp, err := f.dreams.CreateDream(context.Background(), owner.ID, request_models.CreateDreamRequest{Content: content})
	require.NoError(t, err)
	return resp.ID
}

// stubProvider answers with a fixed value or error, optionally blocking
// until the context is done.
type stubProvider struct {
	value string
	err   error
	block bool
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, req ai.ContentRequest) (string, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.value, s.err
}
