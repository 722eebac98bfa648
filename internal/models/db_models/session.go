package db_models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side capability. A bearer is only honoured while its
// row exists.
type Session struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}
