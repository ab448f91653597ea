package extraction

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

type DocumentSectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.DocumentSection) ([]*types.DocumentSection, error)
	UpsertByIdentity(ctx context.Context, tx *gorm.DB, row *types.DocumentSection) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DocumentSection, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DocumentSection, error)
	GetByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.DocumentSection, error)

	UpdateAnnotation(ctx context.Context, tx *gorm.DB, id uuid.UUID, conllu string) error
}

type documentSectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentSectionRepo(db *gorm.DB, baseLog *logger.Logger) DocumentSectionRepo {
	return &documentSectionRepo{db: db, log: baseLog.With("repo", "DocumentSectionRepo")}
}

func (r *documentSectionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DocumentSection) ([]*types.DocumentSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.DocumentSection{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *documentSectionRepo) UpsertByIdentity(ctx context.Context, tx *gorm.DB, row *types.DocumentSection) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "document_id"},
				{Name: "document_version"},
				{Name: "section_index"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"text", "language", "conllu", "metadata", "updated_at"}),
		}).
		Create(row).Error
}

func (r *documentSectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DocumentSection, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *documentSectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DocumentSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DocumentSection
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentSectionRepo) GetByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.DocumentSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DocumentSection
	if documentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("document_id = ? AND document_version = ?", documentID, version).
		Order("section_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentSectionRepo) UpdateAnnotation(ctx context.Context, tx *gorm.DB, id uuid.UUID, conllu string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.DocumentSection{}).
		Where("id = ?", id).
		Update("conllu", conllu).Error
}
