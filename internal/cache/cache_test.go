package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-bible/internal/api"
)

func zipped(t *testing.T, name string, verses []api.Verse) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(w).Encode(verses))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	verses := []api.Verse{
		{Book: 1, Chapter: 1, Verse: 2, Text: "And the earth was without form"},
		{Book: 1, Chapter: 1, Verse: 1, Text: "In the beginning"},
		{Book: 1, Chapter: 2, Verse: 1, Text: "Thus the heavens"},
	}
	body := zipped(t, "KJV.json", verses)

	mux := http.NewServeMux()
	mux.HandleFunc("/static/translations/KJV.zip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewCache(t.TempDir(), srv.URL)
	require.NoError(t, err)
	return c
}

func TestCache_DownloadAndRead(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.False(t, c.IsCached("KJV"))
	require.NoError(t, c.DownloadTranslation(ctx, "KJV"))
	assert.True(t, c.IsCached("KJV"))

	verses, err := c.GetChapter(ctx, "KJV", 1, 1)
	require.NoError(t, err)
	require.Len(t, verses, 2)
	assert.Equal(t, 1, verses[0].Verse)
	assert.Equal(t, "In the beginning", verses[0].Text)

	missing, err := c.GetChapter(ctx, "KJV", 66, 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestCache_GetChapterNotCached(t *testing.T) {
	c := newTestCache(t)

	_, err := c.GetChapter(context.Background(), "WEB", 1, 1)

	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_DownloadMissingTranslation(t *testing.T) {
	c := newTestCache(t)

	err := c.DownloadTranslation(context.Background(), "NOPE")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.False(t, c.IsCached("NOPE"))
}

func TestCache_ListSizeRemove(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.DownloadTranslation(context.Background(), "KJV"))

	list, err := c.ListCached()
	require.NoError(t, err)
	assert.Equal(t, []string{"KJV"}, list)

	size, err := c.Size()
	require.NoError(t, err)
	assert.Positive(t, size)

	require.NoError(t, c.RemoveTranslation("KJV"))
	assert.False(t, c.IsCached("KJV"))
}

func TestCache_RejectsNamesOutsideDir(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write(zipped(t, "x.json", []api.Verse{{Book: 1, Chapter: 1, Verse: 1, Text: "x"}}))
	}))
	t.Cleanup(srv.Close)

	parent := t.TempDir()
	dir := filepath.Join(parent, "translations")
	c, err := NewCache(dir, srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", "../x", "..", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.DownloadTranslation(ctx, name), ErrInvalidTranslation)
			assert.False(t, c.IsCached(name))
			assert.ErrorIs(t, c.RemoveTranslation(name), ErrInvalidTranslation)
			_, err := c.GetChapter(ctx, name, 1, 1)
			assert.ErrorIs(t, err, ErrInvalidTranslation)
		})
	}

	assert.Zero(t, requests)
	_, err = os.Stat(filepath.Join(parent, "x.json"))
	assert.True(t, os.IsNotExist(err))
}
