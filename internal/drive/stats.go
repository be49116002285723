package drive

import (
	"context"
	"path"
	"slices"
	"strings"
)

// StorageQuota is the per-user allowance shown on the dashboard.
const StorageQuota int64 = 100 << 30

type category struct {
	name       string
	extensions []string
}

var categories = []category{
	{"Images", []string{"jpg", "jpeg", "png", "gif"}},
	{"Documents", []string{"pdf", "doc", "docx", "txt"}},
	{"Videos", []string{"mp4", "mov", "avi"}},
	{"Music", []string{"mp3", "wav", "ogg"}},
}

type CategoryUsage struct {
	Type    string  `json:"type"`
	Size    int64   `json:"size"`
	Percent float64 `json:"percent"` // of the quota
}

type Stats struct {
	Total      int64           `json:"total"`
	Used       int64           `json:"used"`
	Percent    float64         `json:"percent"`
	Breakdown  []CategoryUsage `json:"breakdown"`
	TotalFiles int             `json:"totalFiles"`
	Uploads    int             `json:"uploads"`
	Starred    int             `json:"starred"`
}

func percentOf(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// StorageStats totals usage over every file the user owns, in all folders.
// Files whose extension is in no category count toward Used only.
func (c *Client) StorageStats(ctx context.Context) (*Stats, error) {
	const op = "storage stats"
	userID, err := c.begin(ctx, op)
	if err != nil {
		return nil, err
	}

	files, err := c.files.AllForUser(ctx, userID)
	if err != nil {
		return nil, fail(op, ErrQuery, err)
	}

	sizes := make([]int64, len(categories))
	stats := &Stats{Total: StorageQuota, TotalFiles: len(files), Uploads: len(files)}
	for _, f := range files {
		stats.Used += f.Size
		if f.Starred {
			stats.Starred++
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), "."))
		for i, cat := range categories {
			if slices.Contains(cat.extensions, ext) {
				sizes[i] += f.Size
			}
		}
	}

	stats.Percent = percentOf(stats.Used, stats.Total)
	stats.Breakdown = make([]CategoryUsage, len(categories))
	for i, cat := range categories {
		stats.Breakdown[i] = CategoryUsage{
			Type:    cat.name,
			Size:    sizes[i],
			Percent: percentOf(sizes[i], stats.Total),
		}
	}
	return stats, nil
}
