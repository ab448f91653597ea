package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/relation-engine/internal/config"
	"github.com/yungbote/relation-engine/internal/data/graph"
	"github.com/yungbote/relation-engine/internal/data/repos"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/platform/neo4jdb"
	"github.com/yungbote/relation-engine/internal/realtime"
	"github.com/yungbote/relation-engine/internal/realtime/bus"
)

type PromoteDocumentDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Bundles   repos.EvidenceBundleRepo
	Relations repos.SemanticRelationRepo

	// Graph is optional: Postgres stays the source of truth and the Neo4j
	// mirror is refreshed best-effort after the transactional pass.
	Graph *neo4jdb.Client
	Bus   bus.Bus
	Cfg   config.Extraction
}

type PromoteDocumentInput struct {
	DocumentID      uuid.UUID
	DocumentVersion int
}

type PromoteDocumentOutput struct {
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentVersion int       `json:"document_version"`

	Considered     int `json:"considered"`
	Promoted       int `json:"promoted"`
	BelowThreshold int `json:"below_threshold"`
	Relations      int `json:"relations"`
}

// PromoteDocument is the idempotent promotion pass: every bundle of the
// document version still in CANDIDATE state whose recomputed confidence
// clears the threshold becomes (or attaches provenance to) a
// SemanticRelation and flips to PROMOTED. Below-threshold bundles stay
// CANDIDATE, a deliberate third outcome distinct from structural
// rejection. Each bundle promotes inside its own transaction keyed on the
// relation triple, so concurrent promotions of the same triple collapse
// onto one edge.
func PromoteDocument(ctx context.Context, deps PromoteDocumentDeps, in PromoteDocumentInput) (PromoteDocumentOutput, error) {
	out := PromoteDocumentOutput{DocumentID: in.DocumentID, DocumentVersion: in.DocumentVersion}
	if deps.DB == nil || deps.Log == nil || deps.Bundles == nil || deps.Relations == nil {
		return out, fmt.Errorf("promote_document: missing deps")
	}
	if in.DocumentID == uuid.Nil {
		return out, fmt.Errorf("promote_document: missing document_id")
	}
	if in.DocumentVersion < 1 {
		in.DocumentVersion = 1
		out.DocumentVersion = 1
	}
	log := deps.Log.With("document_id", in.DocumentID, "document_version", in.DocumentVersion)

	candidates, err := deps.Bundles.GetCandidatesByDocumentVersion(ctx, nil, in.DocumentID, in.DocumentVersion)
	if err != nil {
		return out, err
	}
	out.Considered = len(candidates)

	touched := map[uuid.UUID]*types.SemanticRelation{}
	for _, b := range candidates {
		// Confidence is recomputed from fragments on every pass; nothing
		// cached can drift upward past the weakest fragment.
		if b.Confidence() < deps.Cfg.PromotionThreshold {
			out.BelowThreshold++
			continue
		}

		bundle := b
		err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			rel, terr := deps.Relations.UpsertTriple(ctx, tx, bundle.SubjectConceptID, bundle.RelationType, bundle.ObjectConceptID)
			if terr != nil {
				return terr
			}
			if terr := deps.Relations.AttachProvenance(ctx, tx, rel.ID, bundle.ID); terr != nil {
				return terr
			}
			if terr := deps.Bundles.MarkPromoted(ctx, tx, []uuid.UUID{bundle.ID}); terr != nil {
				return terr
			}
			touched[rel.ID] = rel
			return nil
		})
		if err != nil {
			return out, fmt.Errorf("promote bundle %s: %w", bundle.ID, err)
		}
		out.Promoted++
	}
	out.Relations = len(touched)

	if len(touched) > 0 && deps.Graph != nil {
		rows := make([]*graph.RelationWithProvenance, 0, len(touched))
		for id, rel := range touched {
			bundleIDs, perr := deps.Relations.ProvenanceBundleIDs(ctx, nil, id)
			if perr != nil {
				return out, perr
			}
			rows = append(rows, &graph.RelationWithProvenance{Relation: rel, BundleIDs: bundleIDs})
		}
		if gerr := graph.UpsertSemanticRelations(ctx, deps.Graph, deps.Log, rows); gerr != nil {
			// Mirror only; the canonical rows are already committed.
			log.Warn("neo4j mirror sync failed (continuing)", "error", gerr)
		}
	}

	log.Info("promotion pass complete",
		"considered", out.Considered,
		"promoted", out.Promoted,
		"below_threshold", out.BelowThreshold,
		"relations", out.Relations,
	)
	publish(ctx, deps.Bus, realtime.Event{
		Stage:           realtime.StagePromotionDone,
		DocumentID:      in.DocumentID,
		DocumentVersion: in.DocumentVersion,
		Promoted:        out.Promoted,
		At:              time.Now().UTC(),
	})
	return out, nil
}
