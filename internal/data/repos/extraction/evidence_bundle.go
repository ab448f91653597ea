package extraction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

type EvidenceBundleRepo interface {
	// CreateWithFragments persists a bundle and its fragments atomically.
	// Fragment BundleID/SectionID are stamped from the bundle.
	CreateWithFragments(ctx context.Context, tx *gorm.DB, bundle *types.EvidenceBundle, fragments []*types.EvidenceFragment) (*types.EvidenceBundle, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvidenceBundle, error)
	GetByIdentity(ctx context.Context, tx *gorm.DB, documentVersion int, subjectID, objectID, sectionID uuid.UUID) (*types.EvidenceBundle, error)
	GetByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.EvidenceBundle, error)
	GetCandidatesByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.EvidenceBundle, error)

	MarkPromoted(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	MarkRejected(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason types.RejectionReason) error

	CountByStatus(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) (map[string]int64, error)
	CountByRejectionReason(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) (map[types.RejectionReason]int64, error)
}

type evidenceBundleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvidenceBundleRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceBundleRepo {
	return &evidenceBundleRepo{db: db, log: baseLog.With("repo", "EvidenceBundleRepo")}
}

func (r *evidenceBundleRepo) CreateWithFragments(ctx context.Context, tx *gorm.DB, bundle *types.EvidenceBundle, fragments []*types.EvidenceFragment) (*types.EvidenceBundle, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if bundle == nil {
		return nil, nil
	}
	err := t.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(bundle).Error; err != nil {
			return err
		}
		for _, f := range fragments {
			f.BundleID = bundle.ID
			if f.SectionID == uuid.Nil {
				f.SectionID = bundle.SectionID
			}
		}
		if len(fragments) > 0 {
			if err := inner.Create(&fragments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	bundle.Fragments = fragments
	return bundle, nil
}

func (r *evidenceBundleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvidenceBundle, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.EvidenceBundle
	if err := t.WithContext(ctx).
		Preload("Fragments").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *evidenceBundleRepo) GetByIdentity(ctx context.Context, tx *gorm.DB, documentVersion int, subjectID, objectID, sectionID uuid.UUID) (*types.EvidenceBundle, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row types.EvidenceBundle
	if err := t.WithContext(ctx).
		Preload("Fragments").
		Where("document_version = ? AND subject_concept_id = ? AND object_concept_id = ? AND section_id = ?",
			documentVersion, subjectID, objectID, sectionID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *evidenceBundleRepo) GetByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.EvidenceBundle, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EvidenceBundle
	if documentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Fragments").
		Where("document_id = ? AND document_version = ?", documentID, version).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evidenceBundleRepo) GetCandidatesByDocumentVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) ([]*types.EvidenceBundle, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EvidenceBundle
	if documentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Fragments").
		Where("document_id = ? AND document_version = ? AND status = ?", documentID, version, types.StatusCandidate).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evidenceBundleRepo) MarkPromoted(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.EvidenceBundle{}).
		Where("id IN ? AND status = ?", ids, types.StatusCandidate).
		Updates(map[string]interface{}{
			"status":     types.StatusPromoted,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *evidenceBundleRepo) MarkRejected(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason types.RejectionReason) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.EvidenceBundle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           types.StatusRejected,
			"rejection_reason": string(reason),
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *evidenceBundleRepo) CountByStatus(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) (map[string]int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := map[string]int64{}
	if documentID == uuid.Nil {
		return out, nil
	}
	var rows []struct {
		Status string
		N      int64
	}
	if err := t.WithContext(ctx).
		Model(&types.EvidenceBundle{}).
		Select("status, COUNT(*) AS n").
		Where("document_id = ? AND document_version = ?", documentID, version).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *evidenceBundleRepo) CountByRejectionReason(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, version int) (map[types.RejectionReason]int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := map[types.RejectionReason]int64{}
	if documentID == uuid.Nil {
		return out, nil
	}
	var rows []struct {
		RejectionReason string
		N               int64
	}
	if err := t.WithContext(ctx).
		Model(&types.EvidenceBundle{}).
		Select("rejection_reason, COUNT(*) AS n").
		Where("document_id = ? AND document_version = ? AND rejection_reason IS NOT NULL", documentID, version).
		Group("rejection_reason").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[types.RejectionReason(row.RejectionReason)] = row.N
	}
	return out, nil
}
