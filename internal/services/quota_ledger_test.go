package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/utils"
)

func TestLedger_FourthReservationRefused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	for i := 1; i <= testQuota; i++ {
		r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
		require.NoError(t, err)
		usage, err := f.ledger.Commit(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, i, usage.Used)
	}

	_, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
	require.Error(t, err)
	assert.True(t, IsQuotaExceeded(err))

	var qe *utils.QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "image", qe.Kind)
	assert.Equal(t, testQuota, qe.Used)
	assert.Equal(t, testQuota, qe.Limit)

	// Other kinds keep their own counters.
	_, err = f.ledger.TryReserve(ctx, alice.ID, db_models.KindVideo)
	assert.NoError(t, err)
}

func TestLedger_CommitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindVideo)
	require.NoError(t, err)

	first, err := f.ledger.Commit(ctx, r)
	require.NoError(t, err)
	second, err := f.ledger.Commit(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Used)
	assert.Equal(t, 1, second.Used)
}

func TestLedger_ReleaseLeavesCounterAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindInterpretation)
	require.NoError(t, err)
	f.ledger.Release(ctx, r)
	f.ledger.Release(ctx, r)
	assert.False(t, r.Pending())

	_, err = f.ledger.Commit(ctx, r)
	assert.ErrorIs(t, err, utils.ErrReservationClosed)

	usage, err := f.ledger.Snapshot(ctx, alice.ID, db_models.KindInterpretation)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Used)
}

func TestLedger_ReleaseAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)
	_, err = f.ledger.Commit(ctx, r)
	require.NoError(t, err)
	f.ledger.Release(ctx, r)

	usage, err := f.ledger.Snapshot(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Used)
}

func TestLedger_FailedApplyDebitsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = f.ledger.Finalize(ctx, r, func(tx repositories.Manager) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, r.Pending())

	usage, err := f.ledger.Snapshot(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Used)
}

func TestLedger_ConcurrentCommitsNeverOverspend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	// Two units already spent, one left.
	for i := 0; i < testQuota-1; i++ {
		r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
		require.NoError(t, err)
		_, err = f.ledger.Commit(ctx, r)
		require.NoError(t, err)
	}

	const racers = 10
	reservations := make([]*Reservation, racers)
	for i := range reservations {
		r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
		require.NoError(t, err)
		reservations[i] = r
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		refused   int
	)
	for _, r := range reservations {
		wg.Add(1)
		go func(r *Reservation) {
			defer wg.Done()
			_, err := f.ledger.Commit(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case IsQuotaExceeded(err):
				refused++
			}
		}(r)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, refused)

	usage, err := f.ledger.Snapshot(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, testQuota, usage.Used)
}

func TestLedger_ConcurrentCommitsUseAllRemaining(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	// Every reservation observes used=0; all three must still succeed.
	reservations := make([]*Reservation, testQuota)
	for i := range reservations {
		r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindVideo)
		require.NoError(t, err)
		reservations[i] = r
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reservations))
	for i, r := range reservations {
		wg.Add(1)
		go func(i int, r *Reservation) {
			defer wg.Done()
			_, errs[i] = f.ledger.Commit(ctx, r)
		}(i, r)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	usage, err := f.ledger.Snapshot(ctx, alice.ID, db_models.KindVideo)
	require.NoError(t, err)
	assert.Equal(t, testQuota, usage.Used)
}

func TestLedger_PremiumIsUnlimited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := premiumAccount(t, f, "alice@example.com")

	for i := 0; i < testQuota+2; i++ {
		r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
		require.NoError(t, err)
		usage, err := f.ledger.Commit(ctx, r)
		require.NoError(t, err)
		assert.True(t, usage.IsPremium)
		assert.Equal(t, 0, usage.Used)
	}
}

func TestLedger_ResetZeroesCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	for _, kind := range db_models.EnrichmentKinds {
		r, err := f.ledger.TryReserve(ctx, alice.ID, kind)
		require.NoError(t, err)
		_, err = f.ledger.Commit(ctx, r)
		require.NoError(t, err)
	}
	require.NoError(t, f.ledger.Reset(ctx, alice.ID))

	for _, kind := range db_models.EnrichmentKinds {
		usage, err := f.ledger.Snapshot(ctx, alice.ID, kind)
		require.NoError(t, err)
		assert.Equal(t, 0, usage.Used, kind)
		assert.Equal(t, testQuota, usage.Limit, kind)
	}
}

func TestLedger_UnknownKind(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	_, err := f.ledger.TryReserve(context.Background(), alice.ID, db_models.EnrichmentKind("poem"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

// premiumAccount inserts a premium account directly; there is no API
// surface that grants premium.
func premiumAccount(t *testing.T, f *fixture, email string) *db_models.Account {
	t.Helper()
	account := &db_models.Account{
		Name:                "premium",
		Email:               email,
		Role:                db_models.RoleDreamer,
		IsPremium:           true,
		ImageLimit:          testQuota,
		VideoLimit:          testQuota,
		InterpretationLimit: testQuota,
	}
	require.NoError(t, f.store.Accounts().Insert(context.Background(), account))
	return account
}
