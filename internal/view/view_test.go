package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/models"
)

func file(name string, folder *uuid.UUID, modified time.Time) models.File {
	return models.File{ID: uuid.New(), Name: name, FolderID: folder, Modified: modified}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	a := file("a.txt", nil, now)
	start := Reduce(State{}, FilesLoaded{Files: []models.File{a}})

	starred := Reduce(start, FileStarred{ID: a.ID, Starred: true})
	if start.Files[0].Starred {
		t.Fatal("original state was modified")
	}
	if !starred.Files[0].Starred {
		t.Fatal("star not applied")
	}

	deleted := Reduce(starred, FileDeleted{ID: a.ID})
	if len(deleted.Files) != 0 || len(starred.Files) != 1 {
		t.Fatalf("deleted=%d starred=%d", len(deleted.Files), len(starred.Files))
	}
}

func TestReduceUploads(t *testing.T) {
	child := models.Folder{ID: uuid.New(), Name: "Docs", FileCount: 2}
	s := Reduce(State{}, FoldersLoaded{Folders: []models.Folder{child}})

	s = Reduce(s, UploadSucceeded{File: file("root.txt", nil, time.Now())})
	if len(s.Files) != 1 {
		t.Fatalf("root upload not shown: %+v", s.Files)
	}

	s = Reduce(s, UploadSucceeded{File: file("nested.txt", &child.ID, time.Now())})
	if len(s.Files) != 1 {
		t.Fatal("upload into child folder shown in current listing")
	}
	if s.Folders[0].FileCount != 3 {
		t.Fatalf("child count = %d, want 3", s.Folders[0].FileCount)
	}
}

func TestReduceRenameAndFolders(t *testing.T) {
	current := uuid.New()
	f := file("draft.txt", &current, time.Now())
	s := Reduce(State{FolderID: &current}, FilesLoaded{Files: []models.File{f}})

	s = Reduce(s, FileRenamed{ID: f.ID, Name: "final.txt"})
	if s.Files[0].Name != "final.txt" {
		t.Fatalf("name = %s", s.Files[0].Name)
	}

	s = Reduce(s, FolderCreated{Folder: models.Folder{ID: uuid.New(), Name: "here", ParentID: &current}})
	s = Reduce(s, FolderCreated{Folder: models.Folder{ID: uuid.New(), Name: "elsewhere"}})
	if len(s.Folders) != 1 || s.Folders[0].Name != "here" {
		t.Fatalf("folders = %+v", s.Folders)
	}

	// unknown ids are ignored
	s2 := Reduce(s, FileStarred{ID: uuid.New(), Starred: true})
	if s2.Files[0].Starred {
		t.Fatal("wrong file starred")
	}
}

func TestFilter(t *testing.T) {
	s := State{Files: []models.File{
		{Name: "Quarterly Report.pdf"},
		{Name: "holiday.jpg"},
		{Name: "report-draft.docx"},
	}}
	if got := s.Filter("REPORT"); len(got) != 2 {
		t.Fatalf("REPORT matched %d", len(got))
	}
	if got := s.Filter("  "); len(got) != 3 {
		t.Fatalf("blank query matched %d", len(got))
	}
	if got := s.Filter("zzz"); len(got) != 0 {
		t.Fatalf("zzz matched %d", len(got))
	}
}

func TestCounts(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := State{Files: []models.File{
		{Name: "new", Modified: now.Add(-time.Hour), Starred: true},
		{Name: "week-old", Modified: now.Add(-6 * 24 * time.Hour)},
		{Name: "old", Modified: now.Add(-8 * 24 * time.Hour), Starred: true},
	}}
	got := s.Counts(now)
	want := Counts{All: 3, Starred: 2, Recent: 2, Uploads: 3}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
}

func TestTabs(t *testing.T) {
	cases := []struct {
		in      string
		tab     Tab
		starred bool
		sort    models.SortOrder
		empty   bool
	}{
		{"", TabAll, false, models.SortDefault, false},
		{"bogus", TabAll, false, models.SortDefault, false},
		{"Starred", TabStarred, true, models.SortDefault, false},
		{"recent", TabRecent, false, models.SortRecent, false},
		{"uploads", TabUploads, false, models.SortDefault, false},
		{"shared", TabShared, false, models.SortDefault, true},
		{"trash", TabTrash, false, models.SortDefault, true},
	}
	for _, tc := range cases {
		tab := ParseTab(tc.in)
		if tab != tc.tab {
			t.Errorf("ParseTab(%q) = %q", tc.in, tab)
			continue
		}
		starred, sort, empty := tab.Query()
		if starred != tc.starred || sort != tc.sort || empty != tc.empty {
			t.Errorf("%s.Query() = %v %v %v", tab, starred, sort, empty)
		}
	}
}
