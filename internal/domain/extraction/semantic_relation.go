package extraction

import (
	"time"

	"github.com/google/uuid"
)

// SemanticRelation is a promoted, typed edge between two canonical
// concepts. The (subject, relation_type, object) triple is unique: later
// bundles supporting the same triple attach provenance instead of
// creating a second edge.
type SemanticRelation struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectConceptID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_relation_triple,unique,priority:1" json:"subject_concept_id"`
	RelationType     string    `gorm:"column:relation_type;not null;index:idx_relation_triple,unique,priority:2" json:"relation_type"`
	ObjectConceptID  uuid.UUID `gorm:"type:uuid;not null;index;index:idx_relation_triple,unique,priority:3" json:"object_concept_id"`

	Provenance []*RelationProvenance `gorm:"foreignKey:RelationID;references:ID" json:"provenance,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SemanticRelation) TableName() string { return "semantic_relation" }

// RelationProvenance links a relation back to one supporting bundle.
type RelationProvenance struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RelationID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_relation_provenance,unique,priority:1" json:"relation_id"`
	BundleID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_relation_provenance,unique,priority:2" json:"bundle_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RelationProvenance) TableName() string { return "relation_provenance" }
