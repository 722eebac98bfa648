package memrepo

import (
	"context"

	"github.com/google/uuid"
	"lucidly/internal/models/db_models"
)

type sessionRepo struct {
	v *view
}

func (r *sessionRepo) Insert(ctx context.Context, session *db_models.Session) error {
	st, unlock := r.v.lock()
	defer unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = now()
	}
	s := *session
	st.sessions[session.Token] = &s
	return nil
}

func (r *sessionRepo) FindByToken(ctx context.Context, token string) (*db_models.Session, error) {
	st, unlock := r.v.lock()
	defer unlock()

	s, ok := st.sessions[token]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *sessionRepo) DeleteByToken(ctx context.Context, token string) error {
	st, unlock := r.v.lock()
	defer unlock()

	delete(st.sessions, token)
	return nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	st, unlock := r.v.lock()
	defer unlock()

	for token, s := range st.sessions {
		if s.UserID == userID {
			delete(st.sessions, token)
		}
	}
	return nil
}
