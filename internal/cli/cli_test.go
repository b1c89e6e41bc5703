package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-bible/internal/api"
	"simple-bible/internal/history"
	"simple-bible/internal/state"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestServer fakes the endpoints of the Bible API the CLI uses.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/get-books/KJV/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []api.Book{
			{BookID: 1, Name: "Genesis", Chapters: 50},
			{BookID: 2, Name: "Exodus", Chapters: 40},
		})
	})
	mux.HandleFunc("/get-text/KJV/1/1/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []api.Verse{
			{Verse: 1, Text: "In the beginning God created the heaven and the earth."},
			{Verse: 2, Text: "And the earth was <i>without form</i>."},
		})
	})
	mux.HandleFunc("/v2/find/KJV", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "the beginning" {
			writeJSON(w, api.SearchResponse{})
			return
		}
		writeJSON(w, api.SearchResponse{ExactMatches: 1, Total: 1, Results: []api.Verse{
			{Book: 1, Chapter: 1, Verse: 1, Text: "In <mark>the beginning</mark> God"},
		}})
	})
	mux.HandleFunc("/static/bolls/app/views/languages.json", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []api.LanguageGroup{{
			Language: "English",
			Translations: []api.Translation{
				{ShortName: "KJV", FullName: "King James Version"},
				{ShortName: "WEB", FullName: "World English Bible"},
			},
		}})
	})
	mux.HandleFunc("/static/translations/WEB.zip", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		f, _ := zw.Create("WEB.json")
		_ = json.NewEncoder(f).Encode([]api.Verse{{Book: 1, Chapter: 1, Verse: 1, Text: "In the beginning, God"}})
		_ = zw.Close()
		_, _ = w.Write(buf.Bytes())
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setup points the CLI at a temp data dir and a fake API.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SIMPLE_BIBLE_DATA_DIR", dir)
	t.Setenv("SIMPLE_BIBLE_API_URL", newTestServer(t).URL)
	t.Setenv("SIMPLE_BIBLE_DEFAULT_TRANSLATION", "KJV")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	readTranslation, booksTranslation, searchTranslation = "", "", ""
	searchLimit = 20
	historyLimit = 20
	translationsLanguage = "English"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "test-1.0.0"
	defer func() { version = original }()

	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "simple-bible version test-1.0.0")
}

func TestReadCmd(t *testing.T) {
	setup(t)

	out, err := run(t, "read", "gen", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Genesis 1 (KJV)")
	assert.Contains(t, out, "1 In the beginning God created the heaven and the earth.")
	assert.Contains(t, out, "2 And the earth was without form.")
}

func TestReadCmd_ChapterOutOfRangeShowsFirst(t *testing.T) {
	setup(t)

	out, err := run(t, "read", "1", "99")

	require.NoError(t, err)
	assert.Contains(t, out, "Genesis 1 (KJV)")
}

func TestReadCmd_Errors(t *testing.T) {
	setup(t)

	_, err := run(t, "read", "gen", "one")
	assert.Error(t, err)

	_, err = run(t, "read", "revelation")
	assert.Error(t, err)
}

func TestBooksCmd(t *testing.T) {
	setup(t)

	out, err := run(t, "books", "--translation", "kjv")

	require.NoError(t, err)
	assert.Contains(t, out, "Genesis")
	assert.Contains(t, out, "Exodus")
	assert.NotContains(t, out, "Leviticus")
}

func TestHistoryCmd(t *testing.T) {
	dir := setup(t)

	out, err := run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no history")

	log, err := history.Open(dir)
	require.NoError(t, err)
	for _, ch := range []int{1, 2, 3} {
		_, err := log.Insert(context.Background(), state.Selection{Translation: "KJV", BookIndex: 0, Chapter: ch})
		require.NoError(t, err)
	}
	require.NoError(t, log.Close())

	out, err = run(t, "history", "--limit", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Genesis 1")
	assert.Contains(t, out, "Genesis 2")
	assert.Contains(t, out, "Genesis 3")
}

func TestDownloadCachedRemove(t *testing.T) {
	setup(t)

	out, err := run(t, "cached")
	require.NoError(t, err)
	assert.Contains(t, out, "no downloaded translations")

	_, err = run(t, "download", "web")
	require.NoError(t, err)

	out, err = run(t, "cached")
	require.NoError(t, err)
	assert.Contains(t, out, "WEB")
	assert.Contains(t, out, "1 translations")

	out, err = run(t, "translations")
	require.NoError(t, err)
	assert.Contains(t, out, "* WEB")
	assert.Contains(t, out, "  KJV")

	_, err = run(t, "remove", "web")
	require.NoError(t, err)
	_, err = run(t, "remove", "web")
	assert.Error(t, err)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KiB", formatSize(1536))
	assert.Equal(t, "2.0 MiB", formatSize(2*1024*1024))
}

func TestSearchCmd(t *testing.T) {
	setup(t)

	out, err := run(t, "search", "the", "beginning")

	require.NoError(t, err)
	assert.Contains(t, out, "Genesis 1:1  In the beginning God")
	assert.Contains(t, out, "1 of 1 matches in KJV")
}
