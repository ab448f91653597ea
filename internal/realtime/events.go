package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Extraction progress stages, published in pipeline order.
const (
	StageParseReady    = "extraction.parse_ready"
	StageSectionDone   = "extraction.section_done"
	StageDocumentDone  = "extraction.document_done"
	StagePromotionDone = "extraction.promotion_done"
)

// Event is one progress notification for a document extraction run.
// Consumers subscribe to the shared channel and filter on DocumentID.
type Event struct {
	Stage           string    `json:"stage"`
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentVersion int       `json:"document_version"`
	SectionID       uuid.UUID `json:"section_id,omitempty"`

	Bundles  int `json:"bundles,omitempty"`
	Abstains int `json:"abstains,omitempty"`
	Promoted int `json:"promoted,omitempty"`
	Rejected int `json:"rejected,omitempty"`

	At time.Time `json:"at"`
}
