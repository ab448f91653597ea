package extraction

import (
	"time"

	"github.com/google/uuid"
)

// Bundle lifecycle. CANDIDATE may remain terminal when confidence never
// reaches the promotion threshold; PROMOTED and REJECTED are terminal.
const (
	StatusCandidate = "CANDIDATE"
	StatusPromoted  = "PROMOTED"
	StatusRejected  = "REJECTED"
)

// RejectionReason is the closed set of machine-readable rejection causes.
type RejectionReason string

const (
	ReasonAuxiliary          RejectionReason = "AUXILIARY"
	ReasonCopula             RejectionReason = "COPULA"
	ReasonModalOrIntentional RejectionReason = "MODAL_OR_INTENTIONAL"
	ReasonProximity          RejectionReason = "PROXIMITY"
)

// EvidenceBundle ties one candidate relation to the fragments that ground
// it. One bundle exists per (document version, concept pair, section);
// the aggregate confidence is always recomputed from fragments and never
// stored as an independently editable column.
type EvidenceBundle struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	DocumentVersion int       `gorm:"column:document_version;not null;index:idx_bundle_identity,unique,priority:1" json:"document_version"`
	SectionID       uuid.UUID `gorm:"type:uuid;not null;index;index:idx_bundle_identity,unique,priority:4" json:"section_id"`

	SubjectConceptID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_bundle_identity,unique,priority:2" json:"subject_concept_id"`
	ObjectConceptID  uuid.UUID `gorm:"type:uuid;not null;index;index:idx_bundle_identity,unique,priority:3" json:"object_concept_id"`

	RelationType     string  `gorm:"column:relation_type;not null" json:"relation_type"`
	TypingConfidence float64 `gorm:"column:typing_confidence;not null;default:0" json:"typing_confidence"`

	Status          string           `gorm:"column:status;not null;default:'CANDIDATE';index" json:"status"`
	RejectionReason *RejectionReason `gorm:"column:rejection_reason;index" json:"rejection_reason,omitempty"`

	Fragments []*EvidenceFragment `gorm:"foreignKey:BundleID;references:ID" json:"fragments,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (EvidenceBundle) TableName() string { return "evidence_bundle" }

// Confidence is the bundle's aggregate confidence: the minimum over all
// fragment confidences. Pessimistic on purpose — a bundle is only as
// trustworthy as its weakest piece of evidence. Returns 0 when the bundle
// carries no fragments.
func (b *EvidenceBundle) Confidence() float64 {
	return MinConfidence(b.Fragments)
}

// MinConfidence folds fragments to their minimum confidence.
func MinConfidence(fragments []*EvidenceFragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	min := fragments[0].Confidence
	for _, f := range fragments[1:] {
		if f != nil && f.Confidence < min {
			min = f.Confidence
		}
	}
	return min
}
