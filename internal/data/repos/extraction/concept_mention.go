package extraction

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

// ConceptMentionRepo reads mention rows owned by the anchoring subsystem.
// The only write is Create, used when seeding self-contained deployments;
// the engine never updates or deletes a mention.
type ConceptMentionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ConceptMention) ([]*types.ConceptMention, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConceptMention, error)
	GetBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.ConceptMention, error)
	GetBySections(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.ConceptMention, error)
}

type conceptMentionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptMentionRepo(db *gorm.DB, baseLog *logger.Logger) ConceptMentionRepo {
	return &conceptMentionRepo{db: db, log: baseLog.With("repo", "ConceptMentionRepo")}
}

func (r *conceptMentionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ConceptMention) ([]*types.ConceptMention, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ConceptMention{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *conceptMentionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConceptMention, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ConceptMention
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *conceptMentionRepo) GetBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.ConceptMention, error) {
	if sectionID == uuid.Nil {
		return nil, nil
	}
	return r.GetBySections(ctx, tx, []uuid.UUID{sectionID})
}

func (r *conceptMentionRepo) GetBySections(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.ConceptMention, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ConceptMention
	if len(sectionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
