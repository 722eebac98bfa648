package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/metrics"
	"lucidly/pkg/utils"
)

// maxCommitAttempts bounds CAS retries when other commits move the counter
// while quota is still left.
const maxCommitAttempts = 8

type reservationState int

const (
	reservationPending reservationState = iota
	reservationCommitted
	reservationReleased
)

// Reservation is a provisional claim on one unit of quota. It has no
// persisted effect until it is committed.
type Reservation struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Kind     db_models.EnrichmentKind
	Observed int
	Limit    int
	Premium  bool

	mu    sync.Mutex
	state reservationState
}

func (r *Reservation) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == reservationPending
}

type QuotaLedgerInterface interface {
	TryReserve(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (*Reservation, error)
	Commit(ctx context.Context, r *Reservation) (db_models.QuotaUsage, error)
	// Finalize runs apply and the debit in one transaction. Either both
	// persist or neither does.
	Finalize(ctx context.Context, r *Reservation, apply func(tx repositories.Manager) error) (db_models.QuotaUsage, error)
	Release(ctx context.Context, r *Reservation)
	Reset(ctx context.Context, userID uuid.UUID) error
	Snapshot(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (db_models.QuotaUsage, error)
}

type QuotaLedger struct {
	repos repositories.Manager
	log   *zap.Logger
}

func NewQuotaLedger(repos repositories.Manager, log *zap.Logger) QuotaLedgerInterface {
	return &QuotaLedger{repos: repos, log: log}
}

func (l *QuotaLedger) TryReserve(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (*Reservation, error) {
	if !kind.Valid() {
		return nil, utils.InvalidInput("unknown enrichment kind %q", kind)
	}
	usage, err := l.repos.Quotas().Usage(ctx, userID, kind)
	if err != nil {
		return nil, storageErr("read quota", err)
	}
	if usage == nil {
		return nil, utils.ErrUnauthenticated
	}

	if !usage.IsPremium && usage.Used >= usage.Limit {
		return nil, quotaExceeded(*usage)
	}

	return &Reservation{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     kind,
		Observed: usage.Used,
		Limit:    usage.Limit,
		Premium:  usage.IsPremium,
	}, nil
}

func (l *QuotaLedger) Commit(ctx context.Context, r *Reservation) (db_models.QuotaUsage, error) {
	return l.Finalize(ctx, r, nil)
}

func (l *QuotaLedger) Finalize(ctx context.Context, r *Reservation, apply func(tx repositories.Manager) error) (db_models.QuotaUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case reservationCommitted:
		return l.Snapshot(ctx, r.UserID, r.Kind)
	case reservationReleased:
		return db_models.QuotaUsage{}, utils.ErrReservationClosed
	}

	var usage db_models.QuotaUsage
	err := l.repos.Transaction(ctx, func(tx repositories.Manager) error {
		if apply != nil {
			if err := apply(tx); err != nil {
				return err
			}
		}
		var err error
		usage, err = l.debit(ctx, tx, r)
		return err
	})
	if err != nil {
		return db_models.QuotaUsage{}, err
	}

	r.state = reservationCommitted
	if !r.Premium {
		metrics.RecordQuotaDebit(string(r.Kind))
		l.log.Info("quota committed",
			zap.String("user_id", r.UserID.String()),
			zap.String("kind", string(r.Kind)),
			zap.String("reservation_id", r.ID.String()),
			zap.Int("used", usage.Used),
			zap.Int("limit", usage.Limit))
	}
	return usage, nil
}

// debit performs the conditional increment. It re-reads the counter after a
// lost CAS and retries while quota remains, so a concurrent commit never
// makes a request fail with quota still available.
func (l *QuotaLedger) debit(ctx context.Context, tx repositories.Manager, r *Reservation) (db_models.QuotaUsage, error) {
	if r.Premium {
		return l.snapshotIn(ctx, tx, r.UserID, r.Kind)
	}

	done, err := tx.Quotas().IsCommitted(ctx, r.ID)
	if err != nil {
		return db_models.QuotaUsage{}, storageErr("check debit", err)
	}
	if done {
		return l.snapshotIn(ctx, tx, r.UserID, r.Kind)
	}

	observed, limit := r.Observed, r.Limit
	last := db_models.QuotaUsage{Kind: r.Kind, Used: observed, Limit: limit}
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		ok, err := tx.Quotas().ConditionalIncrement(ctx, r.UserID, r.Kind, observed, r.ID)
		if err != nil {
			return db_models.QuotaUsage{}, storageErr("commit quota", err)
		}
		if ok {
			return db_models.QuotaUsage{Kind: r.Kind, Used: observed + 1, Limit: limit}, nil
		}

		last, err = l.snapshotIn(ctx, tx, r.UserID, r.Kind)
		if err != nil {
			return db_models.QuotaUsage{}, err
		}
		if last.IsPremium {
			return last, nil
		}
		if last.Used >= last.Limit {
			return db_models.QuotaUsage{}, quotaExceeded(last)
		}
		observed, limit = last.Used, last.Limit
	}
	return db_models.QuotaUsage{}, quotaExceeded(last)
}

// Release abandons a pending reservation. Nothing was persisted, so this
// only closes it against a later commit.
func (l *QuotaLedger) Release(ctx context.Context, r *Reservation) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != reservationPending {
		return
	}
	r.state = reservationReleased
	l.log.Debug("quota reservation released",
		zap.String("user_id", r.UserID.String()),
		zap.String("kind", string(r.Kind)),
		zap.String("reservation_id", r.ID.String()))
}

func (l *QuotaLedger) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := l.repos.Quotas().Reset(ctx, userID); err != nil {
		return storageErr("reset quota", err)
	}
	l.log.Info("quota reset", zap.String("user_id", userID.String()))
	return nil
}

func (l *QuotaLedger) Snapshot(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (db_models.QuotaUsage, error) {
	return l.snapshotIn(ctx, l.repos, userID, kind)
}

func (l *QuotaLedger) snapshotIn(ctx context.Context, repos repositories.Manager, userID uuid.UUID, kind db_models.EnrichmentKind) (db_models.QuotaUsage, error) {
	usage, err := repos.Quotas().Usage(ctx, userID, kind)
	if err != nil {
		return db_models.QuotaUsage{}, storageErr("read quota", err)
	}
	if usage == nil {
		return db_models.QuotaUsage{}, utils.ErrUnauthenticated
	}
	return *usage, nil
}

func quotaExceeded(u db_models.QuotaUsage) error {
	return &utils.QuotaExceededError{Kind: string(u.Kind), Used: u.Used, Limit: u.Limit}
}

// IsQuotaExceeded reports whether err is a quota refusal.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, utils.ErrQuotaExceeded)
}
