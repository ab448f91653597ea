package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/relation-engine/internal/domain"
)

// AutoMigrateAll creates or updates the engine-owned tables. ConceptMention
// is included for self-contained deployments; in shared databases the
// anchoring subsystem owns that table and migration is a no-op there.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.DocumentSection{},
		&types.ConceptMention{},
		&types.EvidenceBundle{},
		&types.EvidenceFragment{},
		&types.SemanticRelation{},
		&types.RelationProvenance{},
	)
}
