package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/pkg/utils"
)

func TestRegister_IssuesUsableSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	auth, err := f.accounts.Register(ctx, request_models.SignUpRequest{
		Name:     "Alice",
		Email:    "  Alice@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", auth.TokenType)
	assert.Equal(t, "alice@example.com", auth.User.Email)
	assert.Equal(t, "dreamer", auth.User.Role)
	for _, kind := range db_models.EnrichmentKinds {
		q := auth.User.Quota[string(kind)]
		assert.Equal(t, 0, q.Used)
		assert.Equal(t, testQuota, q.Limit)
		assert.Equal(t, testQuota, q.Remaining)
	}

	account, err := f.sessions.Resolve(ctx, auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, account.ID.String())
}

func TestRegister_DefaultsNameToLocalPart(t *testing.T) {
	f := newFixture(t)
	auth, err := f.accounts.Register(context.Background(), request_models.SignUpRequest{
		Email: "luna@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "luna", auth.User.Name)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com")

	_, err := f.accounts.Register(ctx, request_models.SignUpRequest{Email: "ALICE@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []request_models.SignUpRequest{
		{Email: "no-at-sign", Password: "secret1"},
		{Email: "bob@example.com", Password: "short"},
	}
	for _, req := range cases {
		_, err := f.accounts.Register(context.Background(), req)
		assert.ErrorIs(t, err, utils.ErrInvalidInput, req.Email)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice@example.com")

	auth, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "Alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)

	_, err = f.accounts.Login(ctx, request_models.LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = f.accounts.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogout_RevokesOnlyThatSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, first := f.register(t, "alice@example.com")

	second, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.accounts.Logout(ctx, first))
	require.NoError(t, f.accounts.Logout(ctx, first))
	require.NoError(t, f.accounts.Logout(ctx, "not-a-jwt"))

	_, err = f.sessions.Resolve(ctx, first)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	_, err = f.sessions.Resolve(ctx, second.Token)
	assert.NoError(t, err)
}

func TestResolve_StaleSessionIsDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bearer := f.register(t, "alice@example.com")

	require.NoError(t, f.store.Accounts().Delete(ctx, alice.ID))

	_, err := f.sessions.Resolve(ctx, bearer)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	signer := utils.NewTokenSigner("test-secret", 0)
	token, err := signer.SessionID(bearer)
	require.NoError(t, err)
	sess, err := f.store.Sessions().FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestResolve_RejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	forged, err := utils.NewTokenSigner("other-secret", time.Hour).CreateToken("whatever", alice.ID.String())
	require.NoError(t, err)

	_, err = f.sessions.Resolve(context.Background(), forged)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	name, bio, public := "Alice L.", "  I dream in colour ", true
	resp, err := f.accounts.UpdateProfile(ctx, alice.ID, request_models.UpdateProfileRequest{
		Name: &name, Bio: &bio, IsProfilePublic: &public,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", resp.Name)
	assert.Equal(t, "I dream in colour", resp.Bio)
	assert.True(t, resp.IsProfilePublic)
	assert.Equal(t, "alice@example.com", resp.Email)

	blank := "   "
	_, err = f.accounts.UpdateProfile(ctx, alice.ID, request_models.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bearer := f.register(t, "alice@example.com")
	bob, _ := f.register(t, "bob@example.com")
	f.dream(t, alice, "flying over the sea")
	bobDream := f.dream(t, bob, "falling")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindImage)
	require.NoError(t, err)
	_, err = f.ledger.Commit(ctx, r)
	require.NoError(t, err)

	require.NoError(t, f.accounts.DeleteAccount(ctx, alice.ID))

	_, err = f.sessions.Resolve(ctx, bearer)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	dreams, err := f.store.Dreams().ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, dreams)

	done, err := f.store.Quotas().IsCommitted(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = f.dreams.GetDream(ctx, bob.ID, bobDream)
	assert.NoError(t, err)

	// The email is free again.
	_, err = f.accounts.Register(ctx, request_models.SignUpRequest{Email: "alice@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestResetQuota(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.register(t, "alice@example.com")

	r, err := f.ledger.TryReserve(ctx, alice.ID, db_models.KindVideo)
	require.NoError(t, err)
	_, err = f.ledger.Commit(ctx, r)
	require.NoError(t, err)

	resp, err := f.accounts.ResetQuota(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quota["video"].Used)
}

func TestRegister_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emails := []string{"race@example.com", "RACE@example.com", " race@example.com", "Race@Example.com"}
	errs := make([]error, len(emails))
	var wg sync.WaitGroup
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = f.accounts.Register(ctx, request_models.SignUpRequest{Email: email, Password: "secret1"})
		}(i, email)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, utils.ErrEmailAlreadyExists):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, len(emails)-1, conflicts)
}
