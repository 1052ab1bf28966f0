package social

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists follow rows in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Exists(ctx context.Context, followerID uint, t models.Ref) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND target_kind = ? AND target_id = ?", followerID, t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return false, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check follow")
	}
	return count > 0, nil
}

func (s *GormStore) CreateIfAbsent(ctx context.Context, followerID uint, t models.Ref) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, TargetKind: t.Kind, TargetID: t.ID})
	if result.Error != nil {
		return false, utils.WrapError(result.Error, utils.ErrInternalServerError.Code, "Failed to create follow")
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) DeleteIfPresent(ctx context.Context, followerID uint, t models.Ref) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND target_kind = ? AND target_id = ?", followerID, t.Kind, t.ID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, utils.WrapError(result.Error, utils.ErrInternalServerError.Code, "Failed to delete follow")
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) CountFollowers(ctx context.Context, t models.Ref) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("target_kind = ? AND target_id = ?", t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count followers")
	}
	return count, nil
}

func (s *GormStore) CountFollowings(ctx context.Context, followerID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count followings")
	}
	return count, nil
}
