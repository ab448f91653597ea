package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/relation-engine/internal/data/repos/extraction"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

type DocumentSectionRepo = extraction.DocumentSectionRepo
type ConceptMentionRepo = extraction.ConceptMentionRepo
type EvidenceBundleRepo = extraction.EvidenceBundleRepo
type SemanticRelationRepo = extraction.SemanticRelationRepo

func NewDocumentSectionRepo(db *gorm.DB, baseLog *logger.Logger) DocumentSectionRepo {
	return extraction.NewDocumentSectionRepo(db, baseLog)
}
func NewConceptMentionRepo(db *gorm.DB, baseLog *logger.Logger) ConceptMentionRepo {
	return extraction.NewConceptMentionRepo(db, baseLog)
}
func NewEvidenceBundleRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceBundleRepo {
	return extraction.NewEvidenceBundleRepo(db, baseLog)
}
func NewSemanticRelationRepo(db *gorm.DB, baseLog *logger.Logger) SemanticRelationRepo {
	return extraction.NewSemanticRelationRepo(db, baseLog)
}
