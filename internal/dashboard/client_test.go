package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the REST API that counts how
// often each path is hit.
type fakeBackend struct {
	mu   sync.Mutex
	hits map[string]int

	server *httptest.Server
	users  []Row
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{
		hits: make(map[string]int),
		users: []Row{
			{"user_id": float64(1), "name": "John Doe", "email": "john@example.com"},
		},
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		fb.mu.Lock()
		fb.hits[c.Request.Method+" "+c.Request.URL.Path]++
		fb.mu.Unlock()
	})
	router.GET("/api/users", func(c *gin.Context) {
		fb.mu.Lock()
		users := fb.users
		fb.mu.Unlock()
		c.JSON(http.StatusOK, users)
	})
	router.GET("/api/users/:id", func(c *gin.Context) {
		if c.Param("id") != "1" {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, fb.users[0])
	})
	router.POST("/api/users", func(c *gin.Context) {
		var p UserPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required fields"})
			return
		}
		if p.Email == "john@example.com" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user_id": 2})
	})
	router.DELETE("/api/users/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	})
	router.GET("/api/dashboard-stats", func(c *gin.Context) {
		fb.mu.Lock()
		n := len(fb.users)
		fb.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"users": n, "total_revenue": 10.5})
	})
	router.GET("/api/database-status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"connected": true})
	})

	fb.server = httptest.NewServer(router)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) setUsers(users []Row) {
	fb.mu.Lock()
	fb.users = users
	fb.mu.Unlock()
}

func (fb *fakeBackend) hitCount(method, path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[method+" "+path]
}

func TestRowsServedFromCacheAfterFirstFetch(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	ctx := context.Background()

	rows, err := c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "John Doe", rows[0]["name"])

	_, err = c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.hitCount(http.MethodGet, "/api/users"))
}

func TestDatabaseStatusNeverCached(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		connected, err := c.DatabaseStatus(ctx)
		require.NoError(t, err)
		assert.True(t, connected)
	}
	assert.Equal(t, 3, fb.hitCount(http.MethodGet, "/api/database-status"))
}

func TestMutationInvalidatesUserListings(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	ctx := context.Background()

	_, err := c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteUser(ctx, 1))

	_, err = c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fb.hitCount(http.MethodGet, "/api/users"))
	assert.Equal(t, 2, fb.hitCount(http.MethodGet, "/api/dashboard-stats"))
}

func TestUserNotFoundError(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)

	_, err := c.User(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Contains(t, err.Error(), "User not found")
}

func TestCreateUserConflict(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)
	ctx := context.Background()

	// Prime the cache so a failed create can prove it stays intact.
	_, err := c.Rows(ctx, KindUsers)
	require.NoError(t, err)

	_, err = c.CreateUser(ctx, UserPayload{Name: "Dup", Email: "john@example.com"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	_, err = c.Rows(ctx, KindUsers)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.hitCount(http.MethodGet, "/api/users"))
}

func TestCreateUserReturnsID(t *testing.T) {
	fb := newFakeBackend(t)
	c := NewClient(fb.server.URL)

	id, err := c.CreateUser(context.Background(), UserPayload{Name: "New", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
}

func TestAPIErrorFormat(t *testing.T) {
	err := &APIError{StatusCode: 500, Message: "Failed to fetch users", Detail: "connection refused"}
	assert.Equal(t, "api error 500: Failed to fetch users: connection refused", err.Error())
}

func TestActiveViewDefaultsToDashboard(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	assert.Equal(t, ViewDashboard, c.ActiveView())
	c.SetActiveView(ViewAnalytics)
	assert.Equal(t, ViewAnalytics, c.ActiveView())
}
