package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/models"
	"gorm.io/gorm"
)

// FileQuery scopes a listing. A nil FolderID selects root-level files only.
type FileQuery struct {
	UserID      uuid.UUID
	FolderID    *uuid.UUID
	StarredOnly bool
	Sort        models.SortOrder
}

type Files struct {
	db *gorm.DB
}

func NewFiles(db *gorm.DB) *Files {
	return &Files{db: db}
}

func (r *Files) List(ctx context.Context, q FileQuery) ([]models.File, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.FolderID != nil {
		tx = tx.Where("folder_id = ?", *q.FolderID)
	} else {
		tx = tx.Where("folder_id IS NULL")
	}
	if q.StarredOnly {
		tx = tx.Where("starred = ?", true)
	}
	if q.Sort == models.SortRecent {
		tx = tx.Order("modified DESC")
	} else {
		tx = tx.Order("name ASC")
	}

	files := make([]models.File, 0)
	if err := tx.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch files: %w", err)
	}
	return files, nil
}

// AllForUser returns every file the user owns, across folders.
func (r *Files) AllForUser(ctx context.Context, userID uuid.UUID) ([]models.File, error) {
	files := make([]models.File, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch files: %w", err)
	}
	return files, nil
}

func (r *Files) Get(ctx context.Context, userID, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&file).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &file, nil
}

func (r *Files) Create(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

// Update applies column changes to one of the user's files and returns the stored row.
func (r *Files) Update(ctx context.Context, userID, id uuid.UUID, changes map[string]any) (*models.File, error) {
	res := r.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changes)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, userID, id)
}

func (r *Files) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.File{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
