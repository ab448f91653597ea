package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/platform/neo4jdb"
)

// RelationWithProvenance pairs a promoted relation with the bundle IDs
// backing it, as resolved from Postgres. Postgres stays the source of
// truth; the graph is a queryable mirror.
type RelationWithProvenance struct {
	Relation  *types.SemanticRelation
	BundleIDs []uuid.UUID
}

// UpsertSemanticRelations mirrors promoted relations into Neo4j as
// (:Concept)-[:SEMANTIC_RELATION {relation_type}]->(:Concept) edges.
// MERGE keys make the sync idempotent: re-running promotion never
// duplicates a node or an edge, it only refreshes properties.
func UpsertSemanticRelations(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, rows []*RelationWithProvenance) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	nodes := make([]map[string]any, 0, len(rows)*2)
	seen := map[uuid.UUID]bool{}
	addNode := func(id uuid.UUID) {
		if id == uuid.Nil || seen[id] {
			return
		}
		seen[id] = true
		nodes = append(nodes, map[string]any{
			"id":        id.String(),
			"synced_at": now,
		})
	}

	rels := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Relation == nil {
			continue
		}
		r := row.Relation
		if r.ID == uuid.Nil || r.SubjectConceptID == uuid.Nil || r.ObjectConceptID == uuid.Nil || r.RelationType == "" {
			continue
		}
		addNode(r.SubjectConceptID)
		addNode(r.ObjectConceptID)

		bundleIDs := make([]string, 0, len(row.BundleIDs))
		for _, b := range row.BundleIDs {
			if b != uuid.Nil {
				bundleIDs = append(bundleIDs, b.String())
			}
		}
		rels = append(rels, map[string]any{
			"id":            r.ID.String(),
			"from_id":       r.SubjectConceptID.String(),
			"to_id":         r.ObjectConceptID.String(),
			"relation_type": r.RelationType,
			"bundle_ids":    bundleIDs,
			"synced_at":     now,
		})
	}
	if len(rels) == 0 {
		return nil
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Create schema helpers (best-effort; may fail for restricted users).
	if res, err := session.Run(ctx, `CREATE CONSTRAINT concept_id_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.id IS UNIQUE`, nil); err != nil {
		if log != nil {
			log.Warn("neo4j schema init failed (continuing)", "error", err)
		}
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Concept {id: n.id})
SET c.synced_at = n.synced_at
`, map[string]any{"nodes": nodes})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Concept {id: r.from_id})
MATCH (b:Concept {id: r.to_id})
MERGE (a)-[e:SEMANTIC_RELATION {relation_type: r.relation_type}]->(b)
SET e.id = r.id,
    e.bundle_ids = r.bundle_ids,
    e.synced_at = r.synced_at
`, map[string]any{"rels": rels})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
