package extraction

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocumentSection holds one section's verbatim text plus its Universal
// Dependencies annotation. Sections are the unit of parallelism: nothing
// in the engine ever reads across two sections.
type DocumentSection struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index;index:idx_document_section,unique,priority:1" json:"document_id"`
	DocumentVersion int       `gorm:"column:document_version;not null;default:1;index:idx_document_section,unique,priority:2" json:"document_version"`
	SectionIndex    int       `gorm:"column:section_index;not null;index:idx_document_section,unique,priority:3" json:"section_index"`

	Text     string `gorm:"column:text;type:text;not null" json:"text"`
	Language string `gorm:"column:language" json:"language,omitempty"`
	// CoNLL-U annotation supplied upstream; empty means the section still
	// needs a parser pass before extraction can run.
	CoNLLU string `gorm:"column:conllu;type:text" json:"conllu,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DocumentSection) TableName() string { return "document_section" }
