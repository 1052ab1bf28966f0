package comment

import (
	"context"
	"errors"

	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"gorm.io/gorm"
)

// GormStore persists comments in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, c *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create comment")
	}
	return nil
}

func (s *GormStore) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("comment")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch comment")
	}
	return &c, nil
}

func (s *GormStore) ListByTarget(ctx context.Context, t models.Ref, page, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	offset := (page - 1) * limit
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("target_kind = ? AND target_id = ? AND parent_id IS NULL", t.Kind, t.ID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list comments")
	}
	return comments, nil
}

func (s *GormStore) ListReplies(ctx context.Context, parentID uint, page, limit int) ([]models.Comment, error) {
	var replies []models.Comment
	offset := (page - 1) * limit
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list replies")
	}
	return replies, nil
}

func (s *GormStore) ListAllReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Find(&replies).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list replies")
	}
	return replies, nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comment")
	}
	return nil
}

func (s *GormStore) CountTopLevel(ctx context.Context, t models.Ref) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("target_kind = ? AND target_id = ? AND parent_id IS NULL", t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count comments")
	}
	return count, nil
}

func (s *GormStore) CountReplies(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count replies")
	}
	return count, nil
}

func (s *GormStore) CountByAuthor(ctx context.Context, authorID uint, t models.Ref) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("author_id = ? AND target_kind = ? AND target_id = ?", authorID, t.Kind, t.ID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count author comments")
	}
	return count, nil
}
