package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"pocket_library/utils"
)

const BaseURL = "https://openlibrary.org"

const (
	DefaultLimit      = 30
	DefaultQueryParam = "query"
	searchFields      = "key,title,author_name,first_publish_year,cover_i"
	userAgent         = "pocket_library/1.0 (+https://openlibrary.org/developers/api)"
)

// Client talks to the Open Library search and works APIs.
type Client struct {
	baseURL    string
	queryParam string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

// WithHTTPClient replaces the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithQueryParam names the search.json parameter that carries the query.
func WithQueryParam(name string) ClientOption {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.queryParam = name
		}
	}
}

// WithTimeout sets the whole-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables the
// limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		queryParam: DefaultQueryParam,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from the [search] section.
func NewClientFromConfig(cfg utils.SearchConfig) *Client {
	return NewClient(cfg.BaseURL,
		WithQueryParam(cfg.QueryParam),
		WithTimeout(cfg.Timeout()),
		WithRateLimit(cfg.RequestsPerSecond))
}

// ------------------ Wire types ------------------
type searchResponse struct {
	NumFound int         `json:"num_found"`
	Start    int         `json:"start"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
}

func (d searchDoc) toResult() SearchResult {
	return SearchResult{
		Key:     d.Key,
		Name:    d.Title,
		Authors: d.AuthorName,
		Year:    d.FirstPublishYear,
		CoverID: d.CoverI,
	}
}

// ------------------ Search function ------------------

// NormalizeQuery trims the query and puts it in Unicode NFC so composed and
// decomposed input send the same request.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// SearchBooks runs one search.json lookup. An empty query returns no results
// without a request.
func (c *Client) SearchBooks(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = NormalizeQuery(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set(c.queryParam, query)
	params.Set("fields", searchFields)
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		results = append(results, d.toResult())
	}
	utils.Debug("search complete", "query", query, "found", resp.NumFound, "returned", len(results))
	return results, nil
}

// ------------------ Work details ------------------
type workResponse struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
}

// WorkDescription fetches a work record and returns its description as plain
// text. Works without a description return "".
func (c *Client) WorkDescription(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}

	var work workResponse
	if err := c.getJSON(ctx, c.baseURL+key+".json", &work); err != nil {
		return "", fmt.Errorf("work %s: %w", key, err)
	}
	return PlainText(decodeDescription(work.Description))
}

// description is either a bare string or {"type": "/type/text", "value": "..."}.
func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

// PlainText strips HTML markup and collapses runs of blank lines.
func PlainText(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		sel.AppendHtml("\n\n")
	})

	var out []string
	blank := false
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n")), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
