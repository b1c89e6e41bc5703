package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the bolls.life Bible API.
const DefaultBaseURL = "https://bolls.life"

// ChapterCache serves chapters of downloaded translations.
type ChapterCache interface {
	IsCached(translation string) bool
	GetChapter(ctx context.Context, translation string, book, chapter int) ([]Verse, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      ChapterCache
}

// NewClient returns a client for baseURL; an empty baseURL means DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCache makes GetChapter prefer downloaded translations.
func (c *Client) SetCache(cache ChapterCache) {
	c.cache = cache
}

type Translation struct {
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Updated   int64  `json:"updated"`
	Dir       string `json:"dir,omitempty"`
}

type LanguageGroup struct {
	Language     string        `json:"language"`
	Translations []Translation `json:"translations"`
}

type Book struct {
	BookID     int    `json:"bookid"`
	ChronOrder int    `json:"chronorder"`
	Name       string `json:"name"`
	Chapters   int    `json:"chapters"`
}

type Verse struct {
	PK          int    `json:"pk"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Book        int    `json:"book,omitempty"`
	Chapter     int    `json:"chapter,omitempty"`
}

// SearchResponse is one page of full-text search results.
type SearchResponse struct {
	ExactMatches int     `json:"exact_matches"`
	Total        int     `json:"total"`
	Results      []Verse `json:"results"`
}

// ParallelRequest asks for the same verses in several translations.
type ParallelRequest struct {
	Translations []string `json:"translations"`
	Book         int      `json:"book"`
	Chapter      int      `json:"chapter"`
	Verses       []int    `json:"verses"`
}

// getJSON fetches path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

// postJSON sends body as JSON to path and decodes the reply into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// GetTranslations lists the translations published for language (e.g. "English").
func (c *Client) GetTranslations(ctx context.Context, language string) ([]Translation, error) {
	var groups []LanguageGroup
	if err := c.getJSON(ctx, "/static/bolls/app/views/languages.json", &groups); err != nil {
		return nil, err
	}
	for _, group := range groups {
		if strings.EqualFold(group.Language, language) {
			return group.Translations, nil
		}
	}
	return nil, nil
}

// GetBooks lists the books of translation in canonical order.
func (c *Client) GetBooks(ctx context.Context, translation string) ([]Book, error) {
	var books []Book
	if err := c.getJSON(ctx, fmt.Sprintf("/get-books/%s/", translation), &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetChapter returns the verses of one chapter, from the cache when the
// translation has been downloaded.
func (c *Client) GetChapter(ctx context.Context, translation string, book, chapter int) ([]Verse, error) {
	if c.cache != nil && c.cache.IsCached(translation) {
		return c.cache.GetChapter(ctx, translation, book, chapter)
	}

	var verses []Verse
	if err := c.getJSON(ctx, fmt.Sprintf("/get-text/%s/%d/%d/", translation, book, chapter), &verses); err != nil {
		return nil, err
	}
	return verses, nil
}

// SearchVerses runs a full-text search in translation and returns at most
// limit results.
func (c *Client) SearchVerses(ctx context.Context, translation, query string, limit int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", fmt.Sprint(limit))

	var resp SearchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/v2/find/%s?%s", translation, params.Encode()), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetParallelVerses returns the requested verses keyed by translation.
func (c *Client) GetParallelVerses(ctx context.Context, req ParallelRequest) (map[string][]Verse, error) {
	// one array per requested translation, in request order
	var raw [][]Verse
	if err := c.postJSON(ctx, "/get-parallel-verses/", req, &raw); err != nil {
		return nil, err
	}

	result := make(map[string][]Verse, len(req.Translations))
	for i, translation := range req.Translations {
		if i < len(raw) {
			result[translation] = raw[i]
		}
	}
	return result, nil
}
