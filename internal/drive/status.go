package drive

import (
	"context"
	"time"

	"github.com/rohits-web03/optivus/internal/repositories"
)

const checkTimeout = 3 * time.Second

// ConfigStatus is the result of each backend check. The checks do not depend on each other.
type ConfigStatus struct {
	EnvVars      bool     `json:"envVars"`
	Connection   bool     `json:"connection"`
	FilesTable   bool     `json:"filesTable"`
	FoldersTable bool     `json:"foldersTable"`
	Storage      bool     `json:"storage"`
	Missing      []string `json:"missing,omitempty"`
}

// OK reports whether every check passed.
func (s ConfigStatus) OK() bool {
	return s.EnvVars && s.Connection && s.FilesTable && s.FoldersTable && s.Storage
}

// CheckConfiguration checks settings, database, tables and bucket. It never fails; a check
// that cannot run is reported false.
func (c *Client) CheckConfiguration(ctx context.Context) ConfigStatus {
	status := ConfigStatus{
		EnvVars: len(c.missing) == 0,
		Missing: c.missing,
	}
	if !status.EnvVars {
		return status
	}

	check := func(fn func(ctx context.Context) bool) bool {
		ctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		return fn(ctx)
	}

	if c.db != nil {
		status.Connection = check(func(ctx context.Context) bool {
			return repositories.Ping(ctx, c.db) == nil
		})
		status.FilesTable = check(func(ctx context.Context) bool {
			return repositories.HasTable(ctx, c.db, "files")
		})
		status.FoldersTable = check(func(ctx context.Context) bool {
			return repositories.HasTable(ctx, c.db, "folders")
		})
	}
	if c.objects != nil {
		status.Storage = check(func(ctx context.Context) bool {
			ok, err := c.objects.BucketExists(ctx)
			if err != nil {
				c.logger.Warn("bucket check failed", "err", err)
			}
			return ok && err == nil
		})
	}
	return status
}
