package memrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"lucidly/internal/models/db_models"
)

type quotaRepo struct {
	v *view
}

func (r *quotaRepo) Usage(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind) (*db_models.QuotaUsage, error) {
	if !kind.Valid() {
		return nil, errors.New("unknown enrichment kind: " + string(kind))
	}
	st, unlock := r.v.lock()
	defer unlock()

	a, ok := st.accounts[userID]
	if !ok {
		return nil, nil
	}
	u := a.Usage(kind)
	return &u, nil
}

func (r *quotaRepo) IsCommitted(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	st, unlock := r.v.lock()
	defer unlock()

	_, ok := st.debits[reservationID]
	return ok, nil
}

func (r *quotaRepo) ConditionalIncrement(ctx context.Context, userID uuid.UUID, kind db_models.EnrichmentKind, observed int, reservationID uuid.UUID) (bool, error) {
	if !kind.Valid() {
		return false, errors.New("unknown enrichment kind: " + string(kind))
	}
	st, unlock := r.v.lock()
	defer unlock()

	a, ok := st.accounts[userID]
	if !ok {
		return false, nil
	}
	u := a.Usage(kind)
	if u.Used != observed || u.Used >= u.Limit {
		return false, nil
	}
	a.SetUsed(kind, u.Used+1)
	st.debits[reservationID] = &db_models.QuotaDebit{
		ReservationID: reservationID,
		UserID:        userID,
		Kind:          kind,
		CreatedAt:     now(),
	}
	return true, nil
}

func (r *quotaRepo) Reset(ctx context.Context, userID uuid.UUID) error {
	st, unlock := r.v.lock()
	defer unlock()

	if a, ok := st.accounts[userID]; ok {
		for _, kind := range db_models.EnrichmentKinds {
			a.SetUsed(kind, 0)
		}
	}
	return nil
}

func (r *quotaRepo) DeleteDebits(ctx context.Context, userID uuid.UUID) error {
	st, unlock := r.v.lock()
	defer unlock()

	for id, d := range st.debits {
		if d.UserID == userID {
			delete(st.debits, id)
		}
	}
	return nil
}
