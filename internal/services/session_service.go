package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/utils"
)

const sessionTokenBytes = 32

type SessionServiceInterface interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	// IssueWith issues a session inside an existing transaction.
	IssueWith(ctx context.Context, tx repositories.Manager, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, bearer string) (*db_models.Account, error)
	Revoke(ctx context.Context, bearer string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type SessionService struct {
	repos  repositories.Manager
	signer *utils.TokenSigner
	log    *zap.Logger
}

func NewSessionService(repos repositories.Manager, signer *utils.TokenSigner, log *zap.Logger) SessionServiceInterface {
	return &SessionService{repos: repos, signer: signer, log: log}
}

func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.IssueWith(ctx, s.repos, userID)
}

func (s *SessionService) IssueWith(ctx context.Context, tx repositories.Manager, userID uuid.UUID) (string, error) {
	token, err := utils.GenerateSecureToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}

	if err := tx.Sessions().Insert(ctx, &db_models.Session{Token: token, UserID: userID}); err != nil {
		return "", storageErr("insert session", err)
	}

	bearer, err := s.signer.CreateToken(token, userID.String())
	if err != nil {
		return "", err
	}
	return bearer, nil
}

// Resolve accepts a bearer only while its session row and its account both
// exist. A session whose account is gone is deleted on the way out.
func (s *SessionService) Resolve(ctx context.Context, bearer string) (*db_models.Account, error) {
	claims, err := s.signer.ValidateToken(bearer)
	if err != nil {
		return nil, utils.ErrUnauthenticated
	}

	session, err := s.repos.Sessions().FindByToken(ctx, claims.ID)
	if err != nil {
		return nil, storageErr("find session", err)
	}
	if session == nil || session.UserID.String() != claims.Subject {
		return nil, utils.ErrUnauthenticated
	}

	account, err := s.repos.Accounts().FindById(ctx, session.UserID)
	if err != nil {
		return nil, storageErr("find account", err)
	}
	if account == nil {
		if err := s.repos.Sessions().DeleteByToken(ctx, session.Token); err != nil {
			s.log.Warn("failed to drop stale session", zap.String("user_id", session.UserID.String()), zap.Error(err))
		} else {
			s.log.Info("dropped stale session", zap.String("user_id", session.UserID.String()))
		}
		return nil, utils.ErrUnauthenticated
	}

	return account, nil
}

// Revoke is idempotent; unknown, expired and malformed bearers are ignored.
func (s *SessionService) Revoke(ctx context.Context, bearer string) error {
	token, err := s.signer.SessionID(bearer)
	if err != nil {
		return nil
	}
	if err := s.repos.Sessions().DeleteByToken(ctx, token); err != nil {
		return storageErr("delete session", err)
	}
	return nil
}

func (s *SessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repos.Sessions().DeleteByUser(ctx, userID); err != nil {
		return storageErr("delete sessions", err)
	}
	return nil
}
