package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/models"
	"github.com/rohits-web03/optivus/internal/repositories"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultUploadWorkers = 4
	DownloadURLTTL       = 15 * time.Minute
)

type Options struct {
	DB      *gorm.DB
	Objects repositories.ObjectStore
	// Missing names required settings that are unset. Non-empty disables every data operation.
	Missing       []string
	UploadWorkers int
	Logger        *log.Logger
}

// Client is the application-level API over the file tables and the object bucket.
// Every operation acts on behalf of the auth.Session found in its context.
type Client struct {
	db      *gorm.DB
	files   *repositories.Files
	folders *repositories.Folders
	objects repositories.ObjectStore
	missing []string
	workers int
	logger  *log.Logger
	now     func() time.Time
}

func New(opts Options) *Client {
	c := &Client{
		db:      opts.DB,
		objects: opts.Objects,
		missing: opts.Missing,
		workers: opts.UploadWorkers,
		logger:  opts.Logger,
		now:     time.Now,
	}
	if c.db != nil {
		c.files = repositories.NewFiles(c.db)
		c.folders = repositories.NewFolders(c.db)
	}
	if c.workers <= 0 {
		c.workers = DefaultUploadWorkers
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Configured reports whether data operations can reach the backend.
func (c *Client) Configured() bool {
	return len(c.missing) == 0 && c.db != nil && c.objects != nil
}

// begin checks configuration, then the session. Neither check touches the network.
func (c *Client) begin(ctx context.Context, op string) (uuid.UUID, error) {
	if !c.Configured() {
		missing := c.missing
		if len(missing) == 0 {
			missing = []string{"backend connection"}
		}
		return uuid.Nil, fail(op, ErrConfiguration, fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	s, ok := auth.FromContext(ctx)
	if !ok {
		return uuid.Nil, fail(op, ErrAuth, nil)
	}
	return s.User.ID, nil
}

// recordErr maps a repository failure onto a kind.
func recordErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fail(op, ErrNotFound, nil)
	}
	return fail(op, ErrRecord, err)
}

func (c *Client) ListFiles(ctx context.Context, folderID *uuid.UUID, starredOnly bool, sort models.SortOrder) ([]models.File, error) {
	const op = "list files"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	files, err := c.files.List(ctx, repositories.FileQuery{
		UserID:      userID,
		FolderID:    folderID,
		StarredOnly: starredOnly,
		Sort:        sort,
	})
	if err != nil {
		return nil, fail(op, ErrQuery, err)
	}
	for i := range files {
		files[i].Normalize()
	}
	return files, nil
}

// ListFolders returns the folders under parentID (nil = top level) with their file counts.
func (c *Client) ListFolders(ctx context.Context, parentID *uuid.UUID) ([]models.Folder, error) {
	const op = "list folders"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	folders, err := c.folders.List(ctx, userID, parentID)
	if err != nil {
		return nil, fail(op, ErrQuery, err)
	}
	return folders, nil
}

// Upload is one file to store.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// objectKey builds {userId}/[{folderId}/]{unixMillis}_{fileId[:8]}_{filename}. The id segment
// keeps same-name uploads stamped in the same millisecond apart.
func objectKey(userID uuid.UUID, folderID *uuid.UUID, fileID uuid.UUID, at time.Time, name string) string {
	parts := []string{userID.String()}
	if folderID != nil {
		parts = append(parts, folderID.String())
	}
	parts = append(parts, fmt.Sprintf("%d_%s_%s", at.UnixMilli(), fileID.String()[:8], name))
	return strings.Join(parts, "/")
}

// baseName drops any directory part a browser may send with the filename.
func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// UploadFile stores the binary, then its record. If the record cannot be written the binary
// is removed again.
func (c *Client) UploadFile(ctx context.Context, up Upload, folderID *uuid.UUID) (*models.File, error) {
	const op = "upload file"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	name := baseName(up.Name)
	if name == "" {
		return nil, fail(op, ErrInvalid, errors.New("file name is required"))
	}
	if folderID != nil {
		if _, err := c.folders.Get(ctx, userID, *folderID); err != nil {
			return nil, recordErr(op, err)
		}
	}

	now := c.now()
	fileID := uuid.New()
	key := objectKey(userID, folderID, fileID, now, name)
	if err := c.objects.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return nil, fail(op, ErrStorage, err)
	}

	file := &models.File{
		ID:       fileID,
		Name:     name,
		Type:     models.FileTypeFromMIME(up.ContentType),
		Size:     up.Size,
		Modified: now.UTC(),
		Path:     key,
		UserID:   userID,
		FolderID: folderID,
	}
	if err := c.files.Create(ctx, file); err != nil {
		// the request may already be cancelled; the cleanup still has to run
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if rmErr := c.objects.Remove(cleanupCtx, key); rmErr != nil {
			c.logger.Error("orphaned object after failed insert", "key", key, "err", rmErr)
		}
		return nil, fail(op, ErrRecord, err)
	}

	c.logger.Debug("file uploaded", "user", userID, "key", key, "size", up.Size)
	return file, nil
}

// UploadResult pairs an upload with its outcome.
type UploadResult struct {
	Name string       `json:"name"`
	File *models.File `json:"file,omitempty"`
	Err  error        `json:"-"`
}

// UploadFiles uploads with at most the configured number of uploads in flight. Results keep
// the input order and a failed upload does not stop the others.
func (c *Client) UploadFiles(ctx context.Context, uploads []Upload, folderID *uuid.UUID) []UploadResult {
	results := make([]UploadResult, len(uploads))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, up := range uploads {
		g.Go(func() error {
			file, err := c.UploadFile(ctx, up, folderID)
			results[i] = UploadResult{Name: up.Name, File: file, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// StarFile sets the starred flag and returns the updated record.
func (c *Client) StarFile(ctx context.Context, fileID uuid.UUID, starred bool) (*models.File, error) {
	const op = "star file"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	file, err := c.files.Update(ctx, userID, fileID, map[string]any{"starred": starred})
	if err != nil {
		return nil, recordErr(op, err)
	}
	file.Normalize()
	return file, nil
}

// RenameFile changes the display name. The object key is left as is.
func (c *Client) RenameFile(ctx context.Context, fileID uuid.UUID, name string) (*models.File, error) {
	const op = "rename file"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fail(op, ErrInvalid, errors.New("name is required"))
	}
	file, err := c.files.Update(ctx, userID, fileID, map[string]any{
		"name":     name,
		"modified": c.now().UTC(),
	})
	if err != nil {
		return nil, recordErr(op, err)
	}
	file.Normalize()
	return file, nil
}

// DeleteFile removes the binary, then the record. A storage failure leaves the record intact.
// A record failure after the binary is gone leaves a record without an object; it is logged
// and reported as ErrRecord.
func (c *Client) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	const op = "delete file"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return err
	}

	file, err := c.files.Get(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(op, ErrNotFound, nil)
		}
		return fail(op, ErrQuery, err)
	}

	if err := c.objects.Remove(ctx, file.Path); err != nil {
		return fail(op, ErrStorage, err)
	}
	if err := c.files.Delete(ctx, userID, fileID); err != nil {
		c.logger.Error("file record left without object", "file", fileID, "key", file.Path, "err", err)
		return recordErr(op, err)
	}
	return nil
}

// CreateFolder inserts a folder under parentID (nil = top level).
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *uuid.UUID) (*models.Folder, error) {
	const op = "create folder"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fail(op, ErrInvalid, errors.New("folder name must be non-empty and contain no slashes"))
	}

	parts := []string{userID.String()}
	if parentID != nil {
		if _, err := c.folders.Get(ctx, userID, *parentID); err != nil {
			return nil, recordErr(op, err)
		}
		parts = append(parts, parentID.String())
	}
	parts = append(parts, name)

	folder := &models.Folder{
		Name:     name,
		UserID:   userID,
		ParentID: parentID,
		Path:     strings.Join(parts, "/"),
	}
	if err := c.folders.Create(ctx, folder); err != nil {
		return nil, fail(op, ErrRecord, err)
	}
	folder.FileCount = 0
	return folder, nil
}

// DownloadURL returns a short-lived link to the file's binary.
func (c *Client) DownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	const op = "download file"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return "", err
	}

	file, err := c.files.Get(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", fail(op, ErrNotFound, nil)
		}
		return "", fail(op, ErrQuery, err)
	}
	url, err := c.objects.PresignGet(ctx, file.Path, DownloadURLTTL)
	if err != nil {
		return "", fail(op, ErrStorage, err)
	}
	return url, nil
}
