package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Manager hands out repositories bound to one connection or transaction.
type Manager interface {
	Accounts() AccountRepository
	Sessions() SessionRepository
	Dreams() DreamRepository
	Quotas() QuotaRepository

	// Transaction runs fn against repositories sharing one transaction. Any
	// error returned by fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Manager) error) error
	Ping(ctx context.Context) error
}

type gormManager struct {
	db *gorm.DB
}

func NewGormManager(db *gorm.DB) Manager {
	return &gormManager{db: db}
}

func (m *gormManager) Accounts() AccountRepository { return NewAccountRepository(m.db) }
func (m *gormManager) Sessions() SessionRepository { return NewSessionRepository(m.db) }
func (m *gormManager) Dreams() DreamRepository     { return NewDreamRepository(m.db) }
func (m *gormManager) Quotas() QuotaRepository     { return NewQuotaRepository(m.db) }

func (m *gormManager) Transaction(ctx context.Context, fn func(tx Manager) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormManager{db: tx})
	})
}

func (m *gormManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
