package extractrun

import "github.com/google/uuid"

const (
	WorkflowName     = "extract_run"
	ActivityExtract  = "extract_document"
	ActivityPromote  = "promote_document"
	WorkflowIDPrefix = "extract-run-"
)

// Input identifies one document version to extract and promote.
type Input struct {
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentVersion int       `json:"document_version"`
}

// Result summarizes the whole run for workflow queries and callers.
type Result struct {
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentVersion int       `json:"document_version"`

	Sections   int `json:"sections"`
	Pairs      int `json:"pairs"`
	Abstains   int `json:"abstains"`
	Candidates int `json:"candidates"`
	Rejected   int `json:"rejected"`
	Promoted   int `json:"promoted"`
	Relations  int `json:"relations"`
}

// WorkflowID derives the deterministic workflow ID for a document
// version, so duplicate starts of the same run dedupe at the server.
func WorkflowID(in Input) string {
	return WorkflowIDPrefix + in.DocumentID.String()
}
