package dashboard

import (
	"context"
	"time"

	"data-warehouse-dashboard/internal/analytics"
	"data-warehouse-dashboard/internal/store"
)

// DefaultRefreshInterval is the period embeddings normally pass to
// RunRefresh.
const DefaultRefreshInterval = 30 * time.Second

// RunRefresh re-fetches the dashboard stats and the active view every
// interval until ctx is cancelled. The periodic refresh bypasses the cache
// entirely: each endpoint is fetched fresh and its entry overwritten.
func (c *Client) RunRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce runs one refresh pass. Endpoints fail independently: one
// failed widget is logged and the rest still refresh.
func (c *Client) RefreshOnce(ctx context.Context) {
	c.refresh(ctx, "dashboard-stats", fetchFresh[store.DashboardStats])

	switch view := c.ActiveView(); view {
	case ViewDashboard:
		// Stats already refreshed above.
	case ViewAnalytics:
		c.refreshAnalytics(ctx)
	default:
		if _, ok := KindForEndpoint(view); ok {
			c.refresh(ctx, view, fetchFresh[[]Row])
		}
	}
}

func (c *Client) refreshAnalytics(ctx context.Context) {
	c.refresh(ctx, "analytics/users-per-month", fetchFresh[[]analytics.MonthlyCount])
	c.refresh(ctx, "analytics/users-by-country", fetchFresh[[]analytics.CountryCount])
	c.refresh(ctx, "analytics/activity-trends", fetchFresh[analytics.ActivityTrends])
	c.refresh(ctx, "analytics/recent-entries", fetchFresh[[]analytics.RecentEntry])
	c.refresh(ctx, "analytics/product-performance", fetchFresh[[]analytics.ProductPerformance])
	c.refresh(ctx, "analytics/product-categories", fetchFresh[[]analytics.CategoryPerformance])
	c.refresh(ctx, "analytics/website-load-times", fetchFresh[[]analytics.LoadTimeMetric])
}

func (c *Client) refresh(ctx context.Context, key string, fn func(context.Context, *Client, string) error) {
	if err := fn(ctx, c, key); err != nil {
		c.log.WithError(err).WithField("endpoint", key).Warn("refresh failed")
	}
}
