package extractrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	extraction "github.com/yungbote/relation-engine/internal/modules/extraction"
)

// Workflow runs extraction then promotion for one document version.
// Both activities are idempotent against the store (pair-identity and
// triple uniqueness), so the default retry policy is safe: a retried
// activity re-derives the same bundles and edges.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	res := Result{DocumentID: in.DocumentID, DocumentVersion: in.DocumentVersion}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var extractOut extraction.ProcessDocumentOutput
	if err := workflow.ExecuteActivity(ctx, ActivityExtract, in).Get(ctx, &extractOut); err != nil {
		return res, err
	}
	res.Sections = extractOut.Sections
	res.Pairs = extractOut.Pairs
	res.Abstains = extractOut.Abstains
	res.Candidates = extractOut.Candidates
	res.Rejected = extractOut.Rejected

	var promoteOut extraction.PromoteDocumentOutput
	if err := workflow.ExecuteActivity(ctx, ActivityPromote, in).Get(ctx, &promoteOut); err != nil {
		return res, err
	}
	res.Promoted = promoteOut.Promoted
	res.Relations = promoteOut.Relations

	return res, nil
}
