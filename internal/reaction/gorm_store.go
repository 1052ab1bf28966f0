package reaction

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists reaction rows in PostgreSQL. The unique pair
// indexes on the tables plus ON CONFLICT DO NOTHING give atomic
// create-if-absent; delete reports rows affected for delete-if-present.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) model(rel Relation) interface{} {
	switch rel {
	case RelDislike:
		return &models.Dislike{}
	case RelSave:
		return &models.Bookmark{}
	default:
		return &models.Like{}
	}
}

func (s *GormStore) row(rel Relation, userID uint, t models.Ref) interface{} {
	switch rel {
	case RelDislike:
		return &models.Dislike{UserID: userID, TargetKind: t.Kind, TargetID: t.ID}
	case RelSave:
		return &models.Bookmark{UserID: userID, TargetKind: t.Kind, TargetID: t.ID}
	default:
		return &models.Like{UserID: userID, TargetKind: t.Kind, TargetID: t.ID}
	}
}

func (s *GormStore) Exists(ctx context.Context, rel Relation, userID uint, t models.Ref) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(s.model(rel)).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return false, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check reaction")
	}
	return count > 0, nil
}

func (s *GormStore) CreateIfAbsent(ctx context.Context, rel Relation, userID uint, t models.Ref) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(s.row(rel, userID, t))
	if result.Error != nil {
		return false, utils.WrapError(result.Error, utils.ErrInternalServerError.Code, "Failed to create reaction")
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) DeleteIfPresent(ctx context.Context, rel Relation, userID uint, t models.Ref) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, t.Kind, t.ID).
		Delete(s.model(rel))
	if result.Error != nil {
		return false, utils.WrapError(result.Error, utils.ErrInternalServerError.Code, "Failed to delete reaction")
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) CountForTarget(ctx context.Context, rel Relation, t models.Ref) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(s.model(rel)).
		Where("target_kind = ? AND target_id = ?", t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count reactions")
	}
	return count, nil
}

func (s *GormStore) ListForUser(ctx context.Context, rel Relation, userID uint, page, limit int) ([]models.Ref, error) {
	var rows []struct {
		TargetKind string
		TargetID   uint
	}
	offset := (page - 1) * limit
	err := s.db.WithContext(ctx).
		Model(s.model(rel)).
		Select("target_kind", "target_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list reactions")
	}

	refs := make([]models.Ref, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, models.Ref{Kind: row.TargetKind, ID: row.TargetID})
	}
	return refs, nil
}

func (s *GormStore) DeleteForTarget(ctx context.Context, rel Relation, t models.Ref) error {
	err := s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", t.Kind, t.ID).
		Delete(s.model(rel)).Error
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete reactions for target")
	}
	return nil
}
