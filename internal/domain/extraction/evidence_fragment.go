package extraction

import (
	"time"

	"github.com/google/uuid"
)

// Fragment kinds. PREDICATE_VISUAL and COREFERENCE_LINK are reserved for
// later evidence sources and never produced today.
const (
	FragmentEntityMention    = "ENTITY_MENTION"
	FragmentPredicateLexical = "PREDICATE_LEXICAL"
	FragmentPredicateVisual  = "PREDICATE_VISUAL"
	FragmentCoreferenceLink  = "COREFERENCE_LINK"
)

// Fragment roles inside a bundle.
const (
	RoleSubject   = "subject"
	RoleObject    = "object"
	RolePredicate = "predicate"
	RoleLink      = "link"
)

// EvidenceFragment is one typed, atomic unit of evidence: a verbatim,
// character-anchored slice of a section with its own confidence.
type EvidenceFragment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BundleID uuid.UUID `gorm:"type:uuid;not null;index" json:"bundle_id"`

	Kind string `gorm:"column:kind;not null" json:"kind"`
	Role string `gorm:"column:role;not null;index" json:"role"`

	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	StartChar int       `gorm:"column:start_char;not null" json:"start_char"`
	EndChar   int       `gorm:"column:end_char;not null" json:"end_char"`

	Confidence float64 `gorm:"column:confidence;not null" json:"confidence"`
	Method     string  `gorm:"column:method" json:"method,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EvidenceFragment) TableName() string { return "evidence_fragment" }
