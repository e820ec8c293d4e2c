package dashboard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshOnceOverwritesActiveSectionCache(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	c.SetActiveView("users")
	ctx := context.Background()

	rows, err := c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	fb.setUsers([]Row{
		{"user_id": float64(1), "name": "John Doe", "email": "john@example.com"},
		{"user_id": float64(2), "name": "Jane Roe", "email": "jane@example.com"},
	})

	c.RefreshOnce(ctx)

	// The cache entry is already fresh: no extra fetch on read.
	rows, err = c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, fb.hitCount(http.MethodGet, "/api/users"))
}

func TestRefreshOnceAlwaysRefreshesStats(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	ctx := context.Background()

	c.RefreshOnce(ctx)
	c.RefreshOnce(ctx)

	assert.Equal(t, 2, fb.hitCount(http.MethodGet, "/api/dashboard-stats"))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	// Served from the refreshed entry, not a third fetch.
	assert.Equal(t, 2, fb.hitCount(http.MethodGet, "/api/dashboard-stats"))
}

func TestRefreshOnceSkipsSectionsOnDashboardView(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)

	c.RefreshOnce(context.Background())

	assert.Equal(t, 1, fb.hitCount(http.MethodGet, "/api/dashboard-stats"))
	assert.Equal(t, 0, fb.hitCount(http.MethodGet, "/api/users"))
}

func TestRunRefreshStopsOnCancel(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunRefresh(ctx, 10*time.Millisecond)
		close(done)
	}()

	// Let at least one tick land, then cancel.
	for i := 0; i < 100; i++ {
		if fb.hitCount(http.MethodGet, "/api/dashboard-stats") > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop after cancel")
	}
	assert.Greater(t, fb.hitCount(http.MethodGet, "/api/dashboard-stats"), 0)
}

func TestRefreshOnceToleratesFailingEndpoint(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	// A view with no backing route: its fetch 404s, stats still refresh.
	c.SetActiveView("submissions")

	c.RefreshOnce(context.Background())

	assert.Equal(t, 1, fb.hitCount(http.MethodGet, "/api/dashboard-stats"))
	_, ok := c.Cache().entries["submissions"]
	assert.False(t, ok)
}
