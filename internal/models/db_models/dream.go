package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const DefaultMood = "peaceful"

type Dream struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index"`
	Title    string
	Content  string
	Mood     string
	Tags     pq.StringArray `gorm:"type:text[]"`
	IsPublic bool

	// Enrichment slots, nil until the first successful generation.
	Interpretation *string
	Image          *string
	Video          *string
}

// Slot returns the enrichment value stored for kind.
func (d *Dream) Slot(kind EnrichmentKind) *string {
	switch kind {
	case KindImage:
		return d.Image
	case KindVideo:
		return d.Video
	case KindInterpretation:
		return d.Interpretation
	}
	return nil
}

func (d *Dream) SetSlot(kind EnrichmentKind, value string) {
	v := value
	switch kind {
	case KindImage:
		d.Image = &v
	case KindVideo:
		d.Video = &v
	case KindInterpretation:
		d.Interpretation = &v
	}
}

func (d *Dream) IsEnriched() bool {
	return d.Image != nil || d.Video != nil || d.Interpretation != nil
}
