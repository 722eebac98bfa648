package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/internal/models/response_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/utils"
)

const (
	minPasswordLength = 6
	tokenTypeBearer   = "bearer"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AuthResponse, error)
	Logout(ctx context.Context, bearer string) error
	Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	ResetQuota(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error)
}

type AccountService struct {
	repos        repositories.Manager
	sessions     SessionServiceInterface
	ledger       QuotaLedgerInterface
	hasher       *utils.PasswordHasher
	defaultQuota int
	log          *zap.Logger
}

func NewAccountService(
	repos repositories.Manager,
	sessions SessionServiceInterface,
	ledger QuotaLedgerInterface,
	hasher *utils.PasswordHasher,
	defaultQuota int,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		repos:        repos,
		sessions:     sessions,
		ledger:       ledger,
		hasher:       hasher,
		defaultQuota: defaultQuota,
		log:          log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	email := normalizeEmail(request.Email)
	if !strings.Contains(email, "@") {
		return nil, utils.InvalidInput("email must contain @")
	}
	if utf8.RuneCountInString(request.Password) < minPasswordLength {
		return nil, utils.InvalidInput("password must be at least %d characters", minPasswordLength)
	}

	existing, err := a.repos.Accounts().FindByEmail(ctx, email)
	if err != nil {
		return nil, storageErr("find account", err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	startTime := time.Now()
	hash, salt, err := a.hasher.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}
	a.log.Debug("password hashed", zap.Duration("took", time.Since(startTime)))

	name := strings.TrimSpace(request.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	if name == "" {
		name = "dreamer"
	}

	account := &db_models.Account{
		Name:                name,
		Email:               email,
		PasswordHash:        hash,
		PasswordSalt:        salt,
		Role:                db_models.RoleDreamer,
		ImageLimit:          a.defaultQuota,
		VideoLimit:          a.defaultQuota,
		InterpretationLimit: a.defaultQuota,
	}

	var bearer string
	err = a.repos.Transaction(ctx, func(tx repositories.Manager) error {
		if err := tx.Accounts().Insert(ctx, account); err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				return utils.ErrEmailAlreadyExists
			}
			return storageErr("insert account", err)
		}
		var err error
		bearer, err = a.sessions.IssueWith(ctx, tx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("account registered", zap.String("user_id", account.ID.String()))
	return authResponse(bearer, account), nil
}

// Login answers unknown emails and wrong passwords identically, including
// the time spent deriving a key.
func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AuthResponse, error) {
	account, err := a.repos.Accounts().FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, storageErr("find account", err)
	}

	if account == nil {
		a.hasher.BurnCycles(request.Password)
		return nil, utils.ErrInvalidCredentials
	}
	if !a.hasher.ComparePasswords(account.PasswordHash, account.PasswordSalt, request.Password) {
		return nil, utils.ErrInvalidCredentials
	}

	bearer, err := a.sessions.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return authResponse(bearer, account), nil
}

func (a *AccountService) Logout(ctx context.Context, bearer string) error {
	return a.sessions.Revoke(ctx, bearer)
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.repos.Accounts().FindById(ctx, userID)
	if err != nil {
		return nil, storageErr("find account", err)
	}
	if account == nil {
		return nil, utils.ErrUnauthenticated
	}
	resp := response_models.NewAccountResponse(account)
	return &resp, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error) {
	fields := make(map[string]interface{})
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, utils.InvalidInput("name must not be blank")
		}
		fields[repositories.ColName] = name
	}
	if request.Bio != nil {
		fields[repositories.ColBio] = strings.TrimSpace(*request.Bio)
	}
	if request.Avatar != nil {
		fields[repositories.ColAvatar] = strings.TrimSpace(*request.Avatar)
	}
	if request.IsProfilePublic != nil {
		fields[repositories.ColIsProfilePublic] = *request.IsProfilePublic
	}

	if len(fields) > 0 {
		if err := a.repos.Accounts().UpdateProfile(ctx, userID, fields); err != nil {
			return nil, storageErr("update profile", err)
		}
	}
	return a.Me(ctx, userID)
}

// DeleteAccount removes the account and everything it owns in one
// transaction, so a failure leaves the account fully intact.
func (a *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := a.repos.Transaction(ctx, func(tx repositories.Manager) error {
		if err := tx.Sessions().DeleteByUser(ctx, userID); err != nil {
			return storageErr("delete sessions", err)
		}
		if err := tx.Dreams().DeleteByOwner(ctx, userID); err != nil {
			return storageErr("delete dreams", err)
		}
		if err := tx.Quotas().DeleteDebits(ctx, userID); err != nil {
			return storageErr("delete quota debits", err)
		}
		if err := tx.Accounts().Delete(ctx, userID); err != nil {
			return storageErr("delete account", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.log.Info("account deleted", zap.String("user_id", userID.String()))
	return nil
}

func (a *AccountService) ResetQuota(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error) {
	if err := a.ledger.Reset(ctx, userID); err != nil {
		return nil, err
	}
	return a.Me(ctx, userID)
}

func authResponse(bearer string, account *db_models.Account) *response_models.AuthResponse {
	return &response_models.AuthResponse{
		Token:     bearer,
		TokenType: tokenTypeBearer,
		User:      response_models.NewAccountResponse(account),
	}
}
