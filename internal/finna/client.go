package finna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the public Finna REST API
	DefaultBaseURL = "https://api.finna.fi/api/v1"
	// MaxPageSize is the largest limit the search endpoint accepts
	MaxPageSize     = 100
	DefaultLanguage = "fi"
	DefaultTimeout  = 60 * time.Second

	// ImageFormatFilter restricts results to the Image content-type facet
	ImageFormatFilter = `format:"0/Image/"`
)

// DefaultFields are the record fields requested alongside the defaults
var DefaultFields = []string{"institutions", "summary", "events", "subjects"}

// Options configures a Client
type Options struct {
	BaseURL  string
	Language string
	PageSize int
	Timeout  time.Duration
	Retries  int
}

// Client queries the search endpoint of a VuFind based API such as Finna
type Client struct {
	BaseURL  string
	Language string
	pageSize int
	http     *resty.Client
}

// SearchResponse is one page of search results. Records is nil when the
// response carried no "records" key at all.
type SearchResponse struct {
	ResultCount int       `json:"resultCount"`
	Records     *[]Record `json:"records,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// HasRecords reports whether the "records" key was present
func (r *SearchResponse) HasRecords() bool {
	return r.Records != nil
}

// NewClient creates a new search client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		AddRetryCondition(retryOnServerError).
		SetHeader("Accept", "application/json").
		SetLogger(slogLogger{})

	return &Client{
		BaseURL:  opts.BaseURL,
		Language: opts.Language,
		pageSize: opts.PageSize,
		http:     httpClient,
	}
}

// PageSize returns the number of records requested per page
func (c *Client) PageSize() int {
	return c.pageSize
}

// Search fetches one page of image records for an already URL-encoded
// lookfor value. Pages are 1-based.
func (c *Client) Search(ctx context.Context, lookfor string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("type", "AllFields")
	for _, f := range DefaultFields {
		params.Add("field[]", f)
	}
	params.Add("filter[]", ImageFormatFilter)
	params.Set("sort", "relevance,id asc")
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("prettyPrint", "false")
	params.Set("lng", c.Language)

	// lookfor is pre-encoded and must reach the server untouched
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get("/search?lookfor=" + lookfor)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search page %d for %q: %w", page, lookfor, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	decoder := json.NewDecoder(bytes.NewReader(resp.Body()))
	decoder.UseNumber()

	var result SearchResponse
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	slog.Debug("Fetched search page", "lookfor", lookfor, "page", page, "result_count", result.ResultCount)

	return &result, nil
}

// retryOnServerError limits retries to 5xx responses. Transport errors are
// returned on the first attempt.
func retryOnServerError(r *resty.Response, err error) bool {
	if err != nil || r == nil {
		return false
	}
	return r.StatusCode() >= http.StatusInternalServerError
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Warnf(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Debugf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
