package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"lucidly/internal/api/controllers"
	"lucidly/internal/config"
	"lucidly/internal/repositories"
	"lucidly/internal/services"
	"lucidly/pkg/utils"
)

var Module = fx.Provide(
	provideHasher,
	provideTokenSigner,
	provideSessionService,
	provideQuotaLedger,
	provideAccountService,
	controllers.NewAccountController,
)

func provideHasher(cfg *config.Config) *utils.PasswordHasher {
	return utils.NewPasswordHasher(cfg.PasswordIterations)
}

func provideTokenSigner(cfg *config.Config) *utils.TokenSigner {
	return utils.NewTokenSigner(cfg.JWTSecret, cfg.SessionTTL)
}

func provideSessionService(repos repositories.Manager, signer *utils.TokenSigner, log *zap.Logger) services.SessionServiceInterface {
	return services.NewSessionService(repos, signer, log.Named("sessions"))
}

func provideQuotaLedger(repos repositories.Manager, log *zap.Logger) services.QuotaLedgerInterface {
	return services.NewQuotaLedger(repos, log.Named("quota"))
}

func provideAccountService(
	repos repositories.Manager,
	sessions services.SessionServiceInterface,
	ledger services.QuotaLedgerInterface,
	hasher *utils.PasswordHasher,
	cfg *config.Config,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(repos, sessions, ledger, hasher, cfg.DefaultQuota, log.Named("accounts"))
}
