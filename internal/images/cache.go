// Package images downloads catalog artwork next to the game folders it
// belongs to, so frontends can show covers without network access.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/game-shelf/internal/report"
	"github.com/franz/game-shelf/internal/sidecar"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
)

// Cache downloads cover and background images into a folder's hidden
// metadata directory. Downloads are best-effort: a failure is logged and
// the entry keeps its remote URLs for a later attempt.
type Cache struct {
	httpClient *http.Client
	store      *store.Store
	logger     *report.EventLogger
}

// Config holds image cache configuration
type Config struct {
	Store   *store.Store
	Logger  *report.EventLogger
	Timeout time.Duration
}

// New creates a new image cache
func New(cfg *Config) *Cache {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Cache{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		store:      cfg.Store,
		logger:     cfg.Logger,
	}
}

// CacheEntry downloads any missing artwork for one entry and records the
// local paths. Returns how many images were downloaded.
func (c *Cache) CacheEntry(ctx context.Context, entry *store.Entry) int {
	if err := os.MkdirAll(sidecar.Dir(entry.FolderPath), 0o755); err != nil {
		util.DebugLog("Folder not writable, skipping artwork for %s: %v", entry.FolderPath, err)
		return 0
	}

	downloaded := 0
	var coverPath, backgroundPath *string

	if entry.CoverURL != nil && entry.LocalCoverPath == nil {
		dest := sidecar.CoverPath(entry.FolderPath)
		if err := c.download(ctx, *entry.CoverURL, dest); err != nil {
			util.WarnLog("Failed to cache cover for %s: %v", entry.Title, err)
			c.logger.LogError(report.EventImage, entry.FolderPath, err)
		} else {
			coverPath = &dest
			downloaded++
		}
	}

	if entry.BackgroundURL != nil && entry.LocalBackgroundPath == nil {
		dest := sidecar.BackgroundPath(entry.FolderPath)
		if err := c.download(ctx, *entry.BackgroundURL, dest); err != nil {
			util.WarnLog("Failed to cache background for %s: %v", entry.Title, err)
			c.logger.LogError(report.EventImage, entry.FolderPath, err)
		} else {
			backgroundPath = &dest
			downloaded++
		}
	}

	if coverPath != nil || backgroundPath != nil {
		if err := c.store.UpdateLocalImages(entry.ID, coverPath, backgroundPath); err != nil {
			util.WarnLog("Failed to record image paths for %s: %v", entry.Title, err)
		}
	}

	return downloaded
}

// download fetches a URL to a destination file, retrying transient
// failures. Existing files are kept as-is.
func (c *Cache) download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	_, err := util.RetryWithBackoff(util.DefaultRetryConfig(), func() (struct{}, error) {
		return struct{}{}, c.fetch(ctx, url, dest)
	}, "image download")

	return err
}

func (c *Cache) fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "img-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close image: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename image into place: %w", err)
	}

	return nil
}
