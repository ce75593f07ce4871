// Package client talks to the ProdukTa API over HTTP. Client implements gateway.Gateway so the
// view controllers can run against a remote server the same way they run against a local store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 15 * time.Second
	// MaxAttempts bounds retries of idempotent reads
	MaxAttempts = 3
)

// APIError is a non-success response the client has no sentinel error for
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error  string                  `json:"error"`
	Fields []utils.ValidationError `json:"fields"`
}

// Client is an HTTP gateway to the ProdukTa API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *logging.SafeLogger
	// initial interval of the retry backoff
	retryInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends token as a bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the client logger
func WithLogger(logger *logging.SafeLogger) Option {
	return func(c *Client) { c.logger = logger.Named("client") }
}

// WithRetryInterval sets the first backoff interval between read attempts
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// New creates a client for the API served at baseURL, e.g. "http://localhost:8080"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		logger:        logging.Logger.Named("client"),
		retryInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ gateway.Gateway = (*Client)(nil)

// ListMSMEs fetches one page of the directory. Page sizes above listing.MaxPageSize are capped;
// show-all queries send no paging parameters.
func (c *Client) ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error) {
	params := ListingParams(filters)
	if !filters.ShowAll {
		params.Set("page", strconv.Itoa(max(page, 1)))
		params.Set("per_page", strconv.Itoa(clampPageSize(pageSize)))
	}

	var resp models.MSMEListResponse
	if err := c.get(ctx, "/v1/msmes?"+params.Encode(), &resp); err != nil {
		return nil, 0, err
	}
	return resp.MSMEs, resp.Pagination.Total, nil
}

// ListSectors fetches every sector
func (c *Client) ListSectors(ctx context.Context) ([]models.Sector, error) {
	var resp models.SectorListResponse
	if err := c.get(ctx, "/v1/sectors", &resp); err != nil {
		return nil, err
	}
	return resp.Sectors, nil
}

// GetMSME fetches one MSME, models.ErrMSMENotFound when it does not exist
func (c *Client) GetMSME(ctx context.Context, id int64) (models.MSME, error) {
	var m models.MSME
	err := c.get(ctx, "/v1/msmes/"+strconv.FormatInt(id, 10), &m)
	return m, err
}

func (c *Client) CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error) {
	var m models.MSME
	err := c.send(ctx, http.MethodPost, "/v1/msmes", payload, &m)
	return m, err
}

func (c *Client) UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error) {
	var m models.MSME
	err := c.send(ctx, http.MethodPut, "/v1/msmes/"+strconv.FormatInt(id, 10), payload, &m)
	return m, err
}

func (c *Client) DeleteMSME(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, "/v1/msmes/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) RecordVisit(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, "/v1/msmes/"+strconv.FormatInt(id, 10)+"/visits", nil, nil)
}

func (c *Client) RecordExport(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, "/v1/msmes/"+strconv.FormatInt(id, 10)+"/exports", nil, nil)
}

// CompanyNameExists asks the API whether name is taken by an MSME other than excludeID
func (c *Client) CompanyNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	params := url.Values{"name": {name}}
	if excludeID > 0 {
		params.Set("exclude_id", strconv.FormatInt(excludeID, 10))
	}
	var resp models.NameCheckResponse
	if err := c.get(ctx, "/v1/msmes/check-name?"+params.Encode(), &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// Export downloads an export file rendered by the server. It returns models.ErrNothingToExport
// when neither selected nor visible ids were given.
func (c *Client) Export(ctx context.Context, format export.Format, selected, visible []int64) ([]byte, error) {
	body := map[string][]int64{"ids": selected, "visible": visible}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/export/"+string(format), b)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNoContent:
		return nil, models.ErrNothingToExport
	default:
		return nil, decodeError(resp)
	}
}

func clampPageSize(n int) int {
	if n < 1 {
		return listing.DefaultPageSize
	}
	return min(n, listing.MaxPageSize)
}

// ListingParams encodes the filter and sort state of q as listing query parameters
func ListingParams(q listing.Query) url.Values {
	params := url.Values{}
	for _, id := range q.Sectors {
		params.Add("sectors", strconv.FormatInt(id, 10))
	}
	for _, loc := range q.Locations {
		params.Add("locations", loc)
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.Sort.Active() {
		params.Set("sort", q.Sort.Column)
		params.Set("dir", string(q.Sort.Direction))
	}
	if q.ShowAll {
		params.Set("all", "true")
	}
	return params
}

// get performs an idempotent read, retrying transport failures and 5xx responses
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, MaxAttempts-1), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			c.logger.Warn("request failed", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			err := decodeError(resp)
			c.logger.Warn("server error", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(decodeError(resp))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}, policy)
}

// send performs a write. Writes are never retried.
func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = b
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	return resp, nil
}

// decodeError maps an error response back onto the sentinel errors of the models package
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}

	var candidates []error
	switch resp.StatusCode {
	case http.StatusNotFound:
		candidates = []error{models.ErrSectorNotFound, models.ErrAdminNotFound}
	case http.StatusUnprocessableEntity:
		return &utils.ValidationFailure{Errors: body.Fields}
	case http.StatusConflict:
		candidates = []error{models.ErrDuplicateName, models.ErrSectorNameExists, models.ErrUsernameExists, models.ErrSectorInUse}
	case http.StatusForbidden:
		candidates = []error{models.ErrForbiddenSector}
	case http.StatusBadRequest:
		candidates = []error{models.ErrInvalidIDList, models.ErrUnsupportedFormat}
	}
	for _, sentinel := range candidates {
		if strings.HasPrefix(body.Error, sentinel.Error()) {
			return fmt.Errorf("%w: %s", sentinel, body.Error)
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return models.ErrMSMENotFound
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
