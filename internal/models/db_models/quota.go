package db_models

import (
	"time"

	"github.com/google/uuid"
)

type EnrichmentKind string

const (
	KindImage          EnrichmentKind = "image"
	KindVideo          EnrichmentKind = "video"
	KindInterpretation EnrichmentKind = "interpretation"
)

var EnrichmentKinds = []EnrichmentKind{KindImage, KindVideo, KindInterpretation}

func (k EnrichmentKind) Valid() bool {
	switch k {
	case KindImage, KindVideo, KindInterpretation:
		return true
	}
	return false
}

// UsedColumn and LimitColumn name the accounts columns backing a kind. Only
// valid kinds map to a column, so the names are safe to splice into SQL.
func (k EnrichmentKind) UsedColumn() string  { return string(k) + "_used" }
func (k EnrichmentKind) LimitColumn() string { return string(k) + "_limit" }

// QuotaUsage is a point-in-time read of one counter pair.
type QuotaUsage struct {
	Kind      EnrichmentKind
	Used      int
	Limit     int
	IsPremium bool
}

func (q QuotaUsage) Remaining() int {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}

// QuotaDebit records one committed reservation. The unique reservation id
// makes commits idempotent.
type QuotaDebit struct {
	ReservationID uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID      `gorm:"type:uuid;index"`
	Kind          EnrichmentKind `gorm:"not null"`
	CreatedAt     time.Time
}

// SlotColumn names the dreams column holding the enrichment of a kind.
func (k EnrichmentKind) SlotColumn() string { return string(k) }
