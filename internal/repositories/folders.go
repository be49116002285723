package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/models"
	"gorm.io/gorm"
)

const folderColumns = "folders.*, (SELECT COUNT(*) FROM files WHERE files.folder_id = folders.id) AS file_count"

type Folders struct {
	db *gorm.DB
}

func NewFolders(db *gorm.DB) *Folders {
	return &Folders{db: db}
}

// List returns the user's folders under parentID (nil = top level) with their file counts.
func (r *Folders) List(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Folder{}).
		Select(folderColumns).
		Where("folders.user_id = ?", userID)
	if parentID != nil {
		tx = tx.Where("folders.parent_id = ?", *parentID)
	} else {
		tx = tx.Where("folders.parent_id IS NULL")
	}

	folders := make([]models.Folder, 0)
	if err := tx.Order("folders.name ASC").Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %w", err)
	}
	return folders, nil
}

func (r *Folders) Get(ctx context.Context, userID, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).
		Model(&models.Folder{}).
		Select(folderColumns).
		Where("folders.id = ? AND folders.user_id = ?", id, userID).
		First(&folder).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &folder, nil
}

func (r *Folders) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}
	return nil
}
