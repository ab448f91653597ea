package extractrun

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	extraction "github.com/yungbote/relation-engine/internal/modules/extraction"
)

type Activities struct {
	Usecases extraction.Usecases
}

func (a *Activities) Extract(ctx context.Context, in Input) (extraction.ProcessDocumentOutput, error) {
	if in.DocumentID == uuid.Nil {
		return extraction.ProcessDocumentOutput{}, fmt.Errorf("extract_document: missing document_id")
	}
	return a.Usecases.ProcessDocument(ctx, extraction.ProcessDocumentInput{
		DocumentID:      in.DocumentID,
		DocumentVersion: in.DocumentVersion,
	})
}

func (a *Activities) Promote(ctx context.Context, in Input) (extraction.PromoteDocumentOutput, error) {
	if in.DocumentID == uuid.Nil {
		return extraction.PromoteDocumentOutput{}, fmt.Errorf("promote_document: missing document_id")
	}
	return a.Usecases.PromoteDocument(ctx, extraction.PromoteDocumentInput{
		DocumentID:      in.DocumentID,
		DocumentVersion: in.DocumentVersion,
	})
}
