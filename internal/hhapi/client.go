// Package hhapi is a client for the hh.ru public vacancy search API.
// Responses arrive as loosely typed JSON; the client keeps items as raw
// maps and leaves interpretation to the analytics normalizer.
package hhapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

const (
	defaultBaseURL   = "https://api.hh.ru"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultPerPage   = 100
	defaultMaxPages  = 10
	defaultCacheTTL  = 30 * time.Minute
	requestTimeout   = 30 * time.Second
	pageDelay        = 500 * time.Millisecond
)

// SearchParams describes one vacancy search. Zero values are omitted from
// the request.
type SearchParams struct {
	Text       string
	Area       string // city name or hh.ru area ID
	SalaryFrom int
	SalaryTo   int
	Experience string // noExperience, between1And3, between3And6, moreThan6
	Employment string // full, part, project, volunteer, probation
	Schedule   string // fullDay, shift, flexible, remote, flyInFlyOut
}

// SearchPage is one page of search results.
type SearchPage struct {
	Items   []map[string]any `json:"items"`
	Found   int              `json:"found"`
	Pages   int              `json:"pages"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// Client talks to the hh.ru API with optional response caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	perPage    int
	maxPages   int
	pageDelay  time.Duration
	cacheTTL   time.Duration
	cache      Cache
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithCache enables response caching for first-page searches.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithPagination sets the page size and the page count limit for SearchAll.
func WithPagination(perPage, maxPages int) Option {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
		if maxPages > 0 {
			c.maxPages = maxPages
		}
	}
}

// WithPageDelay sets the pause between page fetches in SearchAll.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) { c.pageDelay = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		perPage:    defaultPerPage,
		maxPages:   defaultMaxPages,
		pageDelay:  pageDelay,
		cacheTTL:   defaultCacheTTL,
		logger:     log.New(os.Stdout, "[hhapi] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search fetches one page of vacancies. Only the first page is served from
// and written to the cache: later pages shift too often to be worth keeping.
func (c *Client) Search(ctx context.Context, params SearchParams, page int) (*SearchPage, error) {
	query := c.buildQuery(params, page)
	cacheKey := query.Encode() // url.Values sorts keys, so the key is stable

	if c.cache != nil && page == 0 {
		if data, ok, err := c.cache.Get(ctx, cacheKey); err != nil {
			c.logger.Printf("cache get failed: %v", err)
		} else if ok {
			var cached SearchPage
			if err := json.Unmarshal(data, &cached); err == nil {
				c.logger.Printf("cache hit for query: %s", params.Text)
				return &cached, nil
			}
		}
	}

	body, err := c.get(ctx, "/vacancies", query)
	if err != nil {
		return nil, err
	}

	var result SearchPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	c.logger.Printf("found %d vacancies, page %d/%d", result.Found, result.Page, result.Pages)

	if c.cache != nil && page == 0 {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL); err != nil {
			c.logger.Printf("cache set failed: %v", err)
		}
	}

	return &result, nil
}

// SearchAll pages through the search until it runs out of results or hits
// the page limit, returning the items as raw vacancies ready for analysis.
func (c *Client) SearchAll(ctx context.Context, params SearchParams) ([]domain.RawVacancy, error) {
	var vacancies []domain.RawVacancy

	for page := 0; page < c.maxPages; page++ {
		result, err := c.Search(ctx, params, page)
		if err != nil {
			// Keep whatever earlier pages produced.
			if page > 0 {
				c.logger.Printf("page %d failed, keeping %d vacancies: %v", page, len(vacancies), err)
				break
			}
			return nil, err
		}
		if len(result.Items) == 0 {
			break
		}

		fetchedAt := time.Now()
		for _, item := range result.Items {
			vacancies = append(vacancies, domain.RawVacancy{
				ID:        stringField(item, "id"),
				URL:       stringField(item, "alternate_url"),
				RawData:   item,
				FetchedAt: fetchedAt,
			})
		}

		if page >= result.Pages-1 {
			break
		}
		select {
		case <-ctx.Done():
			return vacancies, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	c.logger.Printf("collected %d vacancies for query: %s", len(vacancies), params.Text)
	return vacancies, nil
}

// Vacancy fetches the full record for a single vacancy ID.
func (c *Client) Vacancy(ctx context.Context, id string) (map[string]any, error) {
	body, err := c.get(ctx, "/vacancies/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode vacancy response: %w", err)
	}
	return result, nil
}

func (c *Client) buildQuery(params SearchParams, page int) url.Values {
	query := url.Values{}
	query.Set("text", params.Text)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.perPage))

	if params.Area != "" {
		query.Set("area", AreaID(params.Area))
	}
	if params.SalaryFrom > 0 {
		query.Set("salary_from", strconv.Itoa(params.SalaryFrom))
	}
	if params.SalaryTo > 0 {
		query.Set("salary_to", strconv.Itoa(params.SalaryTo))
	}
	if params.Experience != "" {
		query.Set("experience", params.Experience)
	}
	if params.Employment != "" {
		query.Set("employment", params.Employment)
	}
	if params.Schedule != "" {
		query.Set("schedule", params.Schedule)
	}
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrConnection, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
