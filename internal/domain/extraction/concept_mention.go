package extraction

import (
	"time"

	"github.com/google/uuid"
)

// ConceptMention is one surface occurrence of a canonical concept inside a
// section. Rows are append-only and owned by the upstream anchoring
// subsystem: the engine reads them and never mutates them; re-anchoring
// produces a new row.
type ConceptMention struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConceptID uuid.UUID `gorm:"type:uuid;not null;index" json:"concept_id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`

	Surface string `gorm:"column:surface;not null" json:"surface"`
	// StartChar/EndChar are nil together when the mention arrived without
	// an anchor; the locator then relies on the surface form alone.
	StartChar *int `gorm:"column:start_char" json:"start_char,omitempty"`
	EndChar   *int `gorm:"column:end_char" json:"end_char,omitempty"`

	Confidence float64 `gorm:"column:confidence;not null;default:0" json:"confidence"`
	Method     string  `gorm:"column:method" json:"method,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ConceptMention) TableName() string { return "concept_mention" }

// Anchored reports whether the mention carries a character interval.
func (m *ConceptMention) Anchored() bool {
	return m != nil && m.StartChar != nil && m.EndChar != nil
}
