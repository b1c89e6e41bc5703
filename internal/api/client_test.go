package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/static/bolls/app/views/languages.json", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]LanguageGroup{
			{Language: "German", Translations: []Translation{{ShortName: "LUT"}}},
			{Language: "English", Translations: []Translation{{ShortName: "KJV", FullName: "King James Version"}}},
		})
	})
	mux.HandleFunc("/get-books/KJV/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Book{{BookID: 1, Name: "Genesis", Chapters: 50}})
	})
	mux.HandleFunc("/get-text/KJV/1/1/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Verse{{Verse: 1, Text: "In the beginning"}})
	})
	mux.HandleFunc("/v2/find/KJV", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "beginning" {
			_ = json.NewEncoder(w).Encode(SearchResponse{})
			return
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Total:   1,
			Results: []Verse{{Book: 1, Chapter: 1, Verse: 1, Text: "In the <mark>beginning</mark>"}},
		})
	})
	mux.HandleFunc("/get-parallel-verses/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		var req ParallelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := make([][]Verse, len(req.Translations))
		for i, tr := range req.Translations {
			for _, v := range req.Verses {
				out[i] = append(out[i], Verse{Translation: tr, Book: req.Book, Chapter: req.Chapter, Verse: v, Text: tr})
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type stubCache struct {
	verses []Verse
}

func (s stubCache) IsCached(translation string) bool { return translation == "KJV" }

func (s stubCache) GetChapter(_ context.Context, _ string, _, _ int) ([]Verse, error) {
	return s.verses, nil
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://example.test", NewClient("http://example.test/").BaseURL())
}

func TestClient_GetTranslations(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	got, err := c.GetTranslations(context.Background(), "english")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KJV", got[0].ShortName)
}

func TestClient_GetBooks(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	books, err := c.GetBooks(context.Background(), "KJV")

	require.NoError(t, err)
	assert.Equal(t, []Book{{BookID: 1, Name: "Genesis", Chapters: 50}}, books)
}

func TestClient_GetChapter(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	verses, err := c.GetChapter(context.Background(), "KJV", 1, 1)

	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "In the beginning", verses[0].Text)
}

func TestClient_GetChapter_PrefersCache(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	c.SetCache(stubCache{verses: []Verse{{Verse: 1, Text: "cached"}}})

	verses, err := c.GetChapter(context.Background(), "KJV", 1, 1)

	require.NoError(t, err)
	assert.Equal(t, "cached", verses[0].Text)
}

func TestClient_StatusError(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	_, err := c.GetBooks(context.Background(), "NOPE")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_SearchVerses(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	resp, err := c.SearchVerses(context.Background(), "KJV", "beginning", 50)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].Chapter)
}

func TestClient_GetParallelVerses(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	got, err := c.GetParallelVerses(context.Background(), ParallelRequest{
		Translations: []string{"KJV", "WEB"},
		Book:         43,
		Chapter:      3,
		Verses:       []int{16, 17},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got["WEB"], 2)
	assert.Equal(t, 17, got["WEB"][1].Verse)
	assert.Equal(t, "KJV", got["KJV"][0].Text)
}
