package extraction

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

type SemanticRelationRepo interface {
	// UpsertTriple resolves the relation row for a (subject, type, object)
	// triple, creating it on first sight. Safe to call repeatedly; the row
	// is returned with its persisted ID either way.
	UpsertTriple(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, relationType string, objectID uuid.UUID) (*types.SemanticRelation, error)

	// AttachProvenance links a supporting bundle to a relation. Duplicate
	// (relation, bundle) pairs are ignored, which is what makes promotion
	// idempotent.
	AttachProvenance(ctx context.Context, tx *gorm.DB, relationID, bundleID uuid.UUID) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SemanticRelation, error)
	GetByConcept(ctx context.Context, tx *gorm.DB, conceptID uuid.UUID) ([]*types.SemanticRelation, error)
	GetByBundleIDs(ctx context.Context, tx *gorm.DB, bundleIDs []uuid.UUID) ([]*types.SemanticRelation, error)
	ProvenanceBundleIDs(ctx context.Context, tx *gorm.DB, relationID uuid.UUID) ([]uuid.UUID, error)
}

type semanticRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSemanticRelationRepo(db *gorm.DB, baseLog *logger.Logger) SemanticRelationRepo {
	return &semanticRelationRepo{db: db, log: baseLog.With("repo", "SemanticRelationRepo")}
}

func (r *semanticRelationRepo) UpsertTriple(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, relationType string, objectID uuid.UUID) (*types.SemanticRelation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	row := &types.SemanticRelation{
		SubjectConceptID: subjectID,
		RelationType:     relationType,
		ObjectConceptID:  objectID,
	}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "subject_concept_id"},
				{Name: "relation_type"},
				{Name: "object_concept_id"},
			},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	// DoNothing leaves row.ID zero when the triple already existed; fetch
	// the persisted row so callers always get the real ID.
	var out types.SemanticRelation
	if err := t.WithContext(ctx).
		Where("subject_concept_id = ? AND relation_type = ? AND object_concept_id = ?",
			subjectID, relationType, objectID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *semanticRelationRepo) AttachProvenance(ctx context.Context, tx *gorm.DB, relationID, bundleID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if relationID == uuid.Nil || bundleID == uuid.Nil {
		return nil
	}
	row := &types.RelationProvenance{RelationID: relationID, BundleID: bundleID}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "relation_id"},
				{Name: "bundle_id"},
			},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *semanticRelationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SemanticRelation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.SemanticRelation
	if err := t.WithContext(ctx).
		Preload("Provenance").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *semanticRelationRepo) GetByConcept(ctx context.Context, tx *gorm.DB, conceptID uuid.UUID) ([]*types.SemanticRelation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SemanticRelation
	if conceptID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Provenance").
		Where("subject_concept_id = ? OR object_concept_id = ?", conceptID, conceptID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *semanticRelationRepo) GetByBundleIDs(ctx context.Context, tx *gorm.DB, bundleIDs []uuid.UUID) ([]*types.SemanticRelation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SemanticRelation
	if len(bundleIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Provenance").
		Joins("JOIN relation_provenance rp ON rp.relation_id = semantic_relation.id").
		Where("rp.bundle_id IN ?", bundleIDs).
		Distinct().
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *semanticRelationRepo) ProvenanceBundleIDs(ctx context.Context, tx *gorm.DB, relationID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if relationID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.RelationProvenance{}).
		Where("relation_id = ?", relationID).
		Order("created_at ASC").
		Pluck("bundle_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
