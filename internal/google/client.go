package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cumulus13/gsearch/internal/debuglog"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

const (
	defaultUserAgent = "gsearch/1.0 (interactive search client; github.com/cumulus13/gsearch)"
	defaultTimeout   = 30 * time.Second

	// MaxPerPage is the largest page size the API serves per request.
	MaxPerPage = 10
)

// Result is a single search hit as returned by the API.
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet,omitempty"`
	DisplayLink string `json:"displayLink,omitempty"`
}

// Page is one decoded page of results. TotalResults is the API's estimate
// for the whole query, not the number of items on this page.
type Page struct {
	Items        []Result
	TotalResults int
}

// FetchError reports a failed page fetch. Transport failures, HTTP error
// statuses and undecodable payloads all surface as one of these so callers
// can treat them uniformly.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client queries the Custom Search API for a single key/engine pair.
type Client struct {
	baseURL    string
	key        string
	cx         string
	userAgent  string
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the given API key and search engine ID.
func NewClient(key, cx string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		key:       key,
		cx:        cx,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response mirrors the slice of the API payload gsearch consumes. The API
// encodes totalResults as a decimal string.
type response struct {
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Items []Result `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchPage retrieves one page of results. start is the 1-based rank of the
// first item; num caps the page size and is clamped to MaxPerPage. A payload
// without items is not an error: the caller decides what an empty page means.
func (c *Client) FetchPage(ctx context.Context, query string, start, num int) (*Page, error) {
	if num > MaxPerPage {
		num = MaxPerPage
	}
	if num < 1 {
		num = 1
	}
	if start < 1 {
		start = 1
	}

	params := url.Values{}
	params.Set("key", c.key)
	params.Set("cx", c.cx)
	params.Set("q", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("num", strconv.Itoa(num))

	began := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FetchError{URL: c.baseURL, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		debuglog.Debugf("GET %s failed after %dms: %v", c.baseURL, time.Since(began).Milliseconds(), err)
		return nil, &FetchError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		debuglog.Debugf("GET %s returned %d after %dms", c.baseURL, resp.StatusCode, time.Since(began).Milliseconds())
		return nil, &FetchError{URL: c.baseURL, StatusCode: resp.StatusCode, Err: apiError(resp)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{URL: c.baseURL, Err: fmt.Errorf("decoding response: %w", err)}
	}

	debuglog.Debugf("GET %s q=%q start=%d num=%d -> %d items in %dms",
		c.baseURL, query, start, num, len(payload.Items), time.Since(began).Milliseconds())

	return &Page{
		Items:        payload.Items,
		TotalResults: parseTotal(payload.SearchInformation.TotalResults),
	}, nil
}

// parseTotal reads the API's string-encoded result count. Anything
// unparseable counts as zero rather than failing the whole page.
func parseTotal(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// apiError extracts the API's error message from an error response body.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		return errors.New(errResp.Error.Message)
	}
	return errors.New(http.StatusText(resp.StatusCode))
}
