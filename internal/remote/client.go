// Package remote is the HTTP client for a JSONPlaceholder-style todo endpoint.
//
// Every operation is a single request with no retry. Failures come back as
// *NetworkError or *UnexpectedStatusError.
package remote

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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/todoboard/internal/logging"
	"github.com/idilsaglam/todoboard/internal/metrics"
	"github.com/idilsaglam/todoboard/internal/model"
)

const (
	// RequestTimeout bounds a single request on the default HTTP client.
	RequestTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request uuid for log correlation.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 256
)

var (
	requestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "todoboard_requests_total",
		Help: "Remote todo requests by operation and status",
	}, []string{"op", "status"})

	requestDuration = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todoboard_request_duration_seconds",
		Help:    "Remote todo request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"op"})
)

// Endpoints are the per-operation base URLs. Update and Delete get "/{id}"
// appended.
type Endpoints struct {
	List   string
	Create string
	Update string
	Delete string
}

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func() (string, error)

// Config holds the client configuration.
type Config struct {
	Endpoints  Endpoints
	UserAgent  string
	Token      TokenSource
	HTTPClient *http.Client
}

// Client talks to the todo endpoint. It is safe for concurrent use.
type Client struct {
	endpoints  Endpoints
	userAgent  string
	token      TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a client. All four endpoints are required.
func New(cfg Config) (*Client, error) {
	ep := cfg.Endpoints
	for name, raw := range map[string]string{"list": ep.List, "create": ep.Create, "update": ep.Update, "delete": ep.Delete} {
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("%s endpoint is required", name)
		}
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("%s endpoint: %w", name, err)
		}
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: RequestTimeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "todoboard"
	}
	return &Client{
		endpoints:  ep,
		userAgent:  ua,
		token:      cfg.Token,
		httpClient: hc,
		logger:     logging.NewLogger("remote"),
	}, nil
}

// List fetches one page. page is 1-based.
func (c *Client) List(ctx context.Context, page, limit int) ([]model.Item, error) {
	u, err := url.Parse(c.endpoints.List)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	q := u.Query()
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	var items []model.Item
	if err := c.do(ctx, "list", http.MethodGet, u.String(), nil, []int{http.StatusOK}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new incomplete item and returns the server's copy.
func (c *Client) Create(ctx context.Context, title string) (model.Item, error) {
	body := map[string]any{"title": title, "completed": false}
	var created model.Item
	if err := c.do(ctx, "create", http.MethodPost, c.endpoints.Create, body, []int{http.StatusCreated}, &created); err != nil {
		return model.Item{}, err
	}
	return created, nil
}

// Update changes the title of item id.
func (c *Client) Update(ctx context.Context, id int, title string) error {
	return c.do(ctx, "update", http.MethodPut, itemURL(c.endpoints.Update, id), map[string]any{"title": title}, nil, nil)
}

// SetCompleted changes the completed flag of item id.
func (c *Client) SetCompleted(ctx context.Context, id int, completed bool) error {
	return c.do(ctx, "complete", http.MethodPut, itemURL(c.endpoints.Update, id), map[string]any{"completed": completed}, nil, nil)
}

// Delete removes item id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, itemURL(c.endpoints.Delete, id), nil, nil, nil)
}

func itemURL(base string, id int) string {
	return strings.TrimRight(base, "/") + "/" + strconv.Itoa(id)
}

// do performs one request. accept lists the statuses treated as success;
// nil means any 2xx. out, when non-nil, receives the decoded JSON body.
func (c *Client) do(ctx context.Context, op, method, rawURL string, in any, accept []int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.token != nil {
		tok, err := c.token()
		if err != nil {
			c.logger.Warn().Err(err).Str("op", op).Msg("Token lookup failed, sending without auth")
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(op, "network_error").Inc()
		c.logger.Warn().Err(err).
			Str("op", op).
			Str("request_id", reqID).
			Dur("duration", time.Since(start)).
			Msg("Request failed")
		return &NetworkError{Op: op, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if !accepted(resp.StatusCode, accept) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn().
			Str("op", op).
			Str("request_id", reqID).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Unexpected status")
		return &UnexpectedStatusError{
			Op:         op,
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	c.logger.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func accepted(status int, accept []int) bool {
	if accept == nil {
		return status >= 200 && status < 300
	}
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}
