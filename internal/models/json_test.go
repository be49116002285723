package models

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

func TestJSONKeysAreCamelCase(t *testing.T) {
	folderID := uuid.New()
	values := map[string]any{
		"file":   File{ID: uuid.New(), UserID: uuid.New(), FolderID: &folderID},
		"folder": Folder{ID: folderID, UserID: uuid.New(), ParentID: &folderID, FileCount: 2},
		"user":   User{ID: uuid.New(), AvatarURL: "https://example.com/a.png"},
	}
	want := map[string][]string{
		"file":   {"userId", "folderId"},
		"folder": {"userId", "parentId", "fileCount"},
		"user":   {"avatarUrl", "createdAt"},
	}

	for name, v := range values {
		raw, err := sonic.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		var keys map[string]any
		if err := sonic.Unmarshal(raw, &keys); err != nil {
			t.Fatal(err)
		}
		for k := range keys {
			if strings.Contains(k, "_") {
				t.Errorf("%s: snake_case key %q", name, k)
			}
		}
		for _, k := range want[name] {
			if _, ok := keys[k]; !ok {
				t.Errorf("%s: missing key %q in %s", name, k, raw)
			}
		}
	}
}
