package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Folder struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string     `json:"name" gorm:"not null"`
	UserID   uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	ParentID *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`
	Path     string     `json:"path" gorm:"not null"`

	// FileCount is computed from the files table when listing and never stored.
	FileCount int64 `json:"fileCount" gorm:"->;-:migration"`
}

func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
