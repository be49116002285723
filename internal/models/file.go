package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string     `json:"name" gorm:"not null"`
	Type     FileType   `json:"type" gorm:"not null"`
	Size     int64      `json:"size" gorm:"not null"` // bytes
	Modified time.Time  `json:"modified" gorm:"not null;index"`
	Starred  bool       `json:"starred" gorm:"not null;default:false"`
	Path     string     `json:"path" gorm:"not null"` // object key in the files bucket
	UserID   uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	FolderID *uuid.UUID `json:"folderId" gorm:"type:uuid;index"` // nil = root level
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// IsInRoot returns true if the file is not inside any folder.
func (f *File) IsInRoot() bool {
	return f.FolderID == nil
}

// Normalize fills in the fields older rows may lack.
func (f *File) Normalize() {
	if f.Name == "" {
		f.Name = "Unknown file"
	}
	if f.Type == "" {
		f.Type = TypeDocument
	}
	if f.Size < 0 {
		f.Size = 0
	}
}

// SortOrder selects the ordering of a file listing.
type SortOrder string

const (
	SortDefault SortOrder = "default"
	SortRecent  SortOrder = "recent"
)
