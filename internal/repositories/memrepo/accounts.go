package memrepo

import (
	"context"

	"github.com/google/uuid"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
)

type accountRepo struct {
	v *view
}

func (r *accountRepo) Insert(ctx context.Context, account *db_models.Account) error {
	st, unlock := r.v.lock()
	defer unlock()

	for _, a := range st.accounts {
		if a.Email == account.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	account.Prepare()
	stored := *account
	st.accounts[account.ID] = &stored
	return nil
}

func (r *accountRepo) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	st, unlock := r.v.lock()
	defer unlock()

	a, ok := st.accounts[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	st, unlock := r.v.lock()
	defer unlock()

	for _, a := range st.accounts {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	st, unlock := r.v.lock()
	defer unlock()

	a, ok := st.accounts[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case repositories.ColName:
			a.Name, _ = v.(string)
		case repositories.ColBio:
			a.Bio, _ = v.(string)
		case repositories.ColAvatar:
			a.Avatar, _ = v.(string)
		case repositories.ColIsProfilePublic:
			a.IsProfilePublic, _ = v.(bool)
		}
	}
	a.UpdatedAt = now()
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	st, unlock := r.v.lock()
	defer unlock()

	delete(st.accounts, id)
	return nil
}
