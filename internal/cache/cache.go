// Package cache keeps whole translations on disk so chapters can be read
// without the network.
package cache

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"simple-bible/internal/api"
	"simple-bible/internal/logger"
)

var (
	// ErrNotCached is returned when reading a translation that was not downloaded.
	ErrNotCached = errors.New("translation not cached")

	// ErrInvalidTranslation is returned for a name that cannot be a file in the cache dir.
	ErrInvalidTranslation = errors.New("invalid translation name")
)

var _ api.ChapterCache = (*Cache)(nil)

type chapterKey struct {
	book, chapter int
}

type Cache struct {
	cacheDir   string
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	loaded map[string]map[chapterKey][]api.Verse
}

// NewCache stores translations in dir (default ~/.cache/simple-bible/translations)
// and downloads them from baseURL (default api.DefaultBaseURL).
func NewCache(dir, baseURL string) (*Cache, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(homeDir, ".cache", "simple-bible", "translations")
	}
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Cache{
		cacheDir:   dir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		loaded:     make(map[string]map[chapterKey][]api.Verse),
	}, nil
}

// Dir returns the directory holding downloaded translations.
func (c *Cache) Dir() string {
	return c.cacheDir
}

// path returns the file of translation, refusing names that would leave the
// cache dir.
func (c *Cache) path(translation string) (string, error) {
	if translation == "" || strings.ContainsAny(translation, `/\`) || strings.Contains(translation, "..") {
		return "", fmt.Errorf("%q: %w", translation, ErrInvalidTranslation)
	}
	return filepath.Join(c.cacheDir, translation+".json"), nil
}

// IsCached checks if a translation is already downloaded
func (c *Cache) IsCached(translation string) bool {
	path, err := c.path(translation)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// DownloadTranslation fetches the zipped translation and stores its JSON.
func (c *Cache) DownloadTranslation(ctx context.Context, translation string) error {
	path, err := c.path(translation)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/static/translations/%s.zip", c.baseURL, translation)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", translation+"*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	if err := extractJSON(tmpFile.Name(), path); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.loaded, translation)
	c.mu.Unlock()
	logger.Info("cached %s in %s", translation, path)
	return nil
}

func extractJSON(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if filepath.Ext(f.Name) != ".json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		outFile, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer outFile.Close()

		_, err = io.Copy(outFile, rc)
		return err
	}

	return fmt.Errorf("no JSON file found in ZIP")
}

// index parses a cached translation once and keeps its chapters in memory.
func (c *Cache) index(translation string) (map[chapterKey][]api.Verse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.loaded[translation]; ok {
		return idx, nil
	}

	path, err := c.path(translation)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", translation, ErrNotCached)
		}
		return nil, err
	}
	defer file.Close()

	var all []api.Verse
	if err := json.NewDecoder(file).Decode(&all); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", translation, err)
	}

	idx := make(map[chapterKey][]api.Verse)
	for _, v := range all {
		k := chapterKey{v.Book, v.Chapter}
		idx[k] = append(idx[k], v)
	}
	for _, verses := range idx {
		sort.SliceStable(verses, func(i, j int) bool { return verses[i].Verse < verses[j].Verse })
	}
	c.loaded[translation] = idx
	logger.Debug("indexed %s: %d chapters", translation, len(idx))
	return idx, nil
}

// GetChapter retrieves a chapter from cached data
func (c *Cache) GetChapter(_ context.Context, translation string, book, chapter int) ([]api.Verse, error) {
	idx, err := c.index(translation)
	if err != nil {
		return nil, err
	}
	return idx[chapterKey{book, chapter}], nil
}

// ListCached returns the downloaded translations, sorted.
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return nil, err
	}

	var translations []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			translations = append(translations, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(translations)
	return translations, nil
}

// RemoveTranslation removes a specific cached translation
func (c *Cache) RemoveTranslation(translation string) error {
	path, err := c.path(translation)
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.loaded, translation)
	c.mu.Unlock()
	return os.Remove(path)
}

// Size returns the total size of cached data in bytes
func (c *Cache) Size() (int64, error) {
	var size int64
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		size += info.Size()
	}
	return size, nil
}
