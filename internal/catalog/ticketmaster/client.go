package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"

	// The Discovery API rejects page*size beyond this many results
	maxDeepResults = 1000
)

// Options tunes the client; zero values select defaults
type Options struct {
	Sort         domain.SortOrder
	City         string
	CountryCode  string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client implements domain.CatalogRepository for the Ticketmaster Discovery API
type Client struct {
	baseURL    string
	apiKey     string
	opts       Options
	httpClient *retryablehttp.Client
	logger     *slog.Logger
	redact     redactor
}

// NewClient creates a new Discovery API client
func NewClient(baseURL, apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Sort == "" {
		opts.Sort = domain.SortDateAsc
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	redact := newRedactor(apiKey)

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = leveledLogger{logger: logger, redact: redact}
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	// Hand the final response back so status codes map to domain errors
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		opts:       opts,
		httpClient: rc,
		logger:     logger,
		redact:     redact,
	}
}

// doRequest performs an authenticated GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "path", path, "keyword", query.Get("keyword"), "page", query.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// The transport error quotes the full URL
		err = c.redact.Error(err)
		c.logger.Error("catalog request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrEventNotFound
	case http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	}

	c.logger.Error("catalog request error", "status", resp.StatusCode, "bodyLen", len(body))
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogOffline, resp.StatusCode)
	}
	return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

// SearchEvents returns one zero-based page of events matching keyword
func (c *Client) SearchEvents(ctx context.Context, keyword string, page int) (domain.EventPage, error) {
	if page < 0 {
		page = 0
	}
	if page*domain.PageSize >= maxDeepResults {
		// Past the deep-paging limit the catalog only returns errors
		return domain.EventPage{Number: page}, nil
	}

	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(domain.PageSize))
	query.Set("sort", string(c.opts.Sort))
	if c.opts.City != "" {
		query.Set("city", c.opts.City)
	}
	if c.opts.CountryCode != "" {
		query.Set("countryCode", c.opts.CountryCode)
	}

	body, err := c.doRequest(ctx, "/events.json", query)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			// A 404 on the search endpoint is not about a single event
			return domain.EventPage{}, fmt.Errorf("unexpected status code: %d", http.StatusNotFound)
		}
		return domain.EventPage{}, err
	}

	return c.parseSearchResponse(body, page)
}

// parseSearchResponse extracts the embedded events and paging info
func (c *Client) parseSearchResponse(body []byte, requested int) (domain.EventPage, error) {
	if !gjson.ValidBytes(body) {
		c.logger.Error("JSON parse error", "bodyLen", len(body))
		return domain.EventPage{}, fmt.Errorf("failed to parse response: invalid JSON")
	}

	result := domain.EventPage{
		Number:     requested,
		TotalPages: int(gjson.GetBytes(body, "page.totalPages").Int()),
	}
	if n := gjson.GetBytes(body, "page.number"); n.Exists() {
		result.Number = int(n.Int())
	}

	// No _embedded block means no results
	raw := gjson.GetBytes(body, "_embedded.events")
	if !raw.Exists() {
		return result, nil
	}

	var dtos []EventDTO
	if err := json.Unmarshal([]byte(raw.Raw), &dtos); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return domain.EventPage{}, fmt.Errorf("failed to parse response: %w", err)
	}

	result.Events = MapEvents(dtos)
	return result, nil
}

// GetEventDetails returns a single event by id
func (c *Client) GetEventDetails(ctx context.Context, id string) (*domain.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrEventNotFound
	}

	path := fmt.Sprintf("/events/%s.json", url.PathEscape(id))
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var dto EventDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if dto.ID == "" {
		return nil, domain.ErrEventNotFound
	}

	event := MapEvent(dto)
	return &event, nil
}
