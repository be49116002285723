// Package view holds the file browser's local state as a reducer over explicit actions.
package view

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/models"
)

// RecentWindow is how far back the recent tab and count look.
const RecentWindow = 7 * 24 * time.Hour

// Tab is a sidebar section of the browser.
type Tab string

const (
	TabAll     Tab = "all"
	TabStarred Tab = "starred"
	TabRecent  Tab = "recent"
	TabUploads Tab = "uploads"
	TabShared  Tab = "shared"
	TabTrash   Tab = "trash"
)

// ParseTab maps unknown values to TabAll.
func ParseTab(s string) Tab {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case TabStarred, TabRecent, TabUploads, TabShared, TabTrash:
		return t
	}
	return TabAll
}

// Query returns the listing parameters for the tab. Shared and trash have no backing data
// and always list nothing.
func (t Tab) Query() (starredOnly bool, sort models.SortOrder, empty bool) {
	switch t {
	case TabStarred:
		return true, models.SortDefault, false
	case TabRecent:
		return false, models.SortRecent, false
	case TabShared, TabTrash:
		return false, models.SortDefault, true
	}
	return false, models.SortDefault, false
}

// State is what the browser shows for one folder.
type State struct {
	FolderID *uuid.UUID     `json:"folderId"`
	Files    []models.File   `json:"files"`
	Folders  []models.Folder `json:"folders"`
}

// Action is one of the types below.
type Action interface{ action() }

type FilesLoaded struct{ Files []models.File }
type FoldersLoaded struct{ Folders []models.Folder }
type UploadSucceeded struct{ File models.File }
type FileStarred struct {
	ID      uuid.UUID
	Starred bool
}
type FileRenamed struct {
	ID   uuid.UUID
	Name string
}
type FileDeleted struct{ ID uuid.UUID }
type FolderCreated struct{ Folder models.Folder }

func (FilesLoaded) action()     {}
func (FoldersLoaded) action()   {}
func (UploadSucceeded) action() {}
func (FileStarred) action()     {}
func (FileRenamed) action()     {}
func (FileDeleted) action()     {}
func (FolderCreated) action()   {}

func sameFolder(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Reduce returns the state after a. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FilesLoaded:
		s.Files = slices.Clone(a.Files)
	case FoldersLoaded:
		s.Folders = slices.Clone(a.Folders)
	case UploadSucceeded:
		if sameFolder(a.File.FolderID, s.FolderID) {
			s.Files = append(slices.Clone(s.Files), a.File)
			break
		}
		// uploaded into a child folder of the one shown
		s.Folders = slices.Clone(s.Folders)
		for i := range s.Folders {
			if a.File.FolderID != nil && s.Folders[i].ID == *a.File.FolderID {
				s.Folders[i].FileCount++
			}
		}
	case FileStarred:
		s.Files = updateFile(s.Files, a.ID, func(f *models.File) { f.Starred = a.Starred })
	case FileRenamed:
		s.Files = updateFile(s.Files, a.ID, func(f *models.File) { f.Name = a.Name })
	case FileDeleted:
		s.Files = slices.DeleteFunc(slices.Clone(s.Files), func(f models.File) bool { return f.ID == a.ID })
	case FolderCreated:
		if sameFolder(a.Folder.ParentID, s.FolderID) {
			s.Folders = append(slices.Clone(s.Folders), a.Folder)
		}
	}
	return s
}

func updateFile(files []models.File, id uuid.UUID, fn func(*models.File)) []models.File {
	out := slices.Clone(files)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

// Filter returns the files whose name contains query, ignoring case.
func (s State) Filter(query string) []models.File {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(s.Files)
	}
	out := make([]models.File, 0, len(s.Files))
	for _, f := range s.Files {
		if strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
		}
	}
	return out
}

// Counts are the sidebar badges.
type Counts struct {
	All     int `json:"all"`
	Starred int `json:"starred"`
	Recent  int `json:"recent"`
	Uploads int `json:"uploads"`
	Shared  int `json:"shared"`
	Trash   int `json:"trash"`
}

func (s State) Counts(now time.Time) Counts {
	cutoff := now.Add(-RecentWindow)
	c := Counts{All: len(s.Files), Uploads: len(s.Files)}
	for _, f := range s.Files {
		if f.Starred {
			c.Starred++
		}
		if f.Modified.After(cutoff) {
			c.Recent++
		}
	}
	return c
}
