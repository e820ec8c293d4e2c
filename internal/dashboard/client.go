package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"data-warehouse-dashboard/internal/analytics"
	"data-warehouse-dashboard/internal/store"

	"github.com/sirupsen/logrus"
)

// Views the refresh loop distinguishes besides the entity sections.
const (
	ViewDashboard = "dashboard"
	ViewAnalytics = "analytics"
)

// Client is the data layer of one dashboard session. It owns the cache and
// the active-view marker; nothing here is global state.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *Cache
	log     *logrus.Entry

	mu         sync.RWMutex
	activeView string
}

// APIError is a non-2xx response decoded from the backend's
// {error, message?} body.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the backend.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		cache:   NewCache(),
		log:     logrus.WithField("component", "dashboard"),

		activeView: ViewDashboard,
	}
}

func (c *Client) SetActiveView(view string) {
	c.mu.Lock()
	c.activeView = view
	c.mu.Unlock()
}

func (c *Client) ActiveView() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeView
}

func (c *Client) Cache() *Cache { return c.cache }

// DatabaseStatus probes connectivity. It is never cached.
func (c *Client) DatabaseStatus(ctx context.Context) (bool, error) {
	var out struct {
		Connected bool `json:"connected"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/database-status", nil, &out); err != nil {
		return false, err
	}
	return out.Connected, nil
}

func (c *Client) Stats(ctx context.Context) (store.DashboardStats, error) {
	return cachedGet[store.DashboardStats](ctx, c, "dashboard-stats")
}

// Rows fetches a section's table rows through the cache.
func (c *Client) Rows(ctx context.Context, kind EntityKind) ([]Row, error) {
	return cachedGet[[]Row](ctx, c, kind.Section().Endpoint)
}

func (c *Client) UsersPerMonth(ctx context.Context) ([]analytics.MonthlyCount, error) {
	return cachedGet[[]analytics.MonthlyCount](ctx, c, "analytics/users-per-month")
}

func (c *Client) UsersByCountry(ctx context.Context) ([]analytics.CountryCount, error) {
	return cachedGet[[]analytics.CountryCount](ctx, c, "analytics/users-by-country")
}

func (c *Client) ActivityTrends(ctx context.Context) (analytics.ActivityTrends, error) {
	return cachedGet[analytics.ActivityTrends](ctx, c, "analytics/activity-trends")
}

func (c *Client) RecentEntries(ctx context.Context) ([]analytics.RecentEntry, error) {
	return cachedGet[[]analytics.RecentEntry](ctx, c, "analytics/recent-entries")
}

func (c *Client) ProductPerformance(ctx context.Context) ([]analytics.ProductPerformance, error) {
	return cachedGet[[]analytics.ProductPerformance](ctx, c, "analytics/product-performance")
}

func (c *Client) ProductCategories(ctx context.Context) ([]analytics.CategoryPerformance, error) {
	return cachedGet[[]analytics.CategoryPerformance](ctx, c, "analytics/product-categories")
}

func (c *Client) WebsiteLoadTimes(ctx context.Context) ([]analytics.LoadTimeMetric, error) {
	return cachedGet[[]analytics.LoadTimeMetric](ctx, c, "analytics/website-load-times")
}

// User fetches one user directly, bypassing the cache (edit-modal path).
func (c *Client) User(ctx context.Context, id uint) (Row, error) {
	var row Row
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &row)
	return row, err
}

// UserPayload is the create/update request body.
type UserPayload struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Country *string `json:"country"`
	Gender  *string `json:"gender"`
}

// CreateUser creates a user and invalidates the listings derived from the
// users table so the next read re-fetches.
func (c *Client) CreateUser(ctx context.Context, p UserPayload) (uint, error) {
	var out struct {
		UserID uint `json:"user_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", p, &out); err != nil {
		return 0, err
	}
	c.cache.Invalidate("users", "dashboard-stats")
	return out.UserID, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, p UserPayload) error {
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), p, nil); err != nil {
		return err
	}
	c.cache.Invalidate("users", "dashboard-stats")
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate("users", "dashboard-stats")
	return nil
}

// cachedGet serves key from the cache, coalescing concurrent misses into a
// single GET of /api/<key>.
func cachedGet[T any](ctx context.Context, c *Client, key string) (T, error) {
	v, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		var out T
		if err := c.doJSON(ctx, http.MethodGet, "/api/"+key, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// fetchFresh bypasses the cache and overwrites the entry on success.
func fetchFresh[T any](ctx context.Context, c *Client, key string) error {
	var out T
	if err := c.doJSON(ctx, http.MethodGet, "/api/"+key, nil, &out); err != nil {
		return err
	}
	c.cache.Put(key, out)
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			apiErr.Message = errBody.Error
			apiErr.Detail = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
