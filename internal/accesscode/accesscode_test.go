package accesscode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		c, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, c, codeLength)
		for _, r := range c {
			assert.True(t, strings.ContainsRune(codeCharset, r), "unexpected rune %q", r)
		}
		seen[c] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestUsable(t *testing.T) {
	now := time.Now()
	past, future := now.Add(-time.Minute), now.Add(time.Minute)

	assert.NoError(t, Code{Active: true}.Usable(now))
	assert.NoError(t, Code{Active: true, ExpiresAt: &future}.Usable(now))
	assert.ErrorIs(t, Code{Active: true, ExpiresAt: &past}.Usable(now), ErrInactive)
	assert.ErrorIs(t, Code{Active: false}.Usable(now), ErrInactive)
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	c, err := r.Create(ctx, "Chung kết", 0)
	require.NoError(t, err)
	assert.True(t, c.Active)
	assert.Nil(t, c.ExpiresAt)

	got, err := r.Verify(ctx, strings.ToLower(c.Code))
	require.NoError(t, err)
	assert.Equal(t, "Chung kết", got.MatchTitle)

	_, err = r.Verify(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	r.Add(Code{Code: "off001", Active: false})
	_, err = r.Verify(ctx, "OFF001")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestMemoryRegistry_Expiry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	c, err := r.Create(ctx, "", time.Hour)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = r.Verify(ctx, c.Code)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/access-codes":
			var req createRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Code{Code: "NEW123", Active: true, MatchTitle: req.MatchTitle})
		case r.URL.Path == "/access-codes/ABC123/verify":
			_ = json.NewEncoder(w).Encode(Code{Code: "ABC123", Active: true})
		case r.URL.Path == "/access-codes/OLD000/verify":
			w.WriteHeader(http.StatusGone)
		case r.URL.Path == "/access-codes/BROKEN/verify":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewHTTPClient(srv.URL+"/", nil)

	created, err := c.Create(ctx, "Bán kết", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "NEW123", created.Code)
	assert.Equal(t, "Bán kết", created.MatchTitle)

	got, err := c.Verify(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", got.Code)

	_, err = c.Verify(ctx, "NOPE00")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Verify(ctx, "OLD000")
	assert.ErrorIs(t, err, ErrInactive)
	_, err = c.Verify(ctx, "BROKEN")
	assert.ErrorContains(t, err, "unexpected status 500")
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestGormRegistry(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	r, err := OpenPostgres(dsn)
	require.NoError(t, err)

	c, err := r.Create(ctx, "gorm", time.Hour)
	require.NoError(t, err)

	got, err := r.Verify(ctx, c.Code)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	require.NoError(t, r.Deactivate(ctx, c.Code))
	_, err = r.Verify(ctx, c.Code)
	assert.ErrorIs(t, err, ErrInactive)

	assert.ErrorIs(t, r.Deactivate(ctx, "??????"), ErrNotFound)
}
