package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/ffdata/internal/services"
	"github.com/stitts-dev/ffdata/pkg/logger"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

var sampleRows = []RawPlayerRow{
	{Name: "Josh Allen", Position: "QB", Team: "BUF", Stats: map[string]float64{"pass_yds": 4200}},
}

func newTestClient(t *testing.T, cache *services.CacheService, retries int) *FeedClient {
	t.Helper()
	log := logger.Discard()
	return NewFeedClient(FeedClientConfig{
		Timeout:     time.Second,
		Retries:     retries,
		CacheTTL:    time.Hour,
		Season:      2025,
		BaseBackoff: time.Millisecond,
	}, cache, services.NewCircuitBreakerService(5, time.Minute, log), log)
}

func TestFeedSourceFetches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(sampleRows)
	}))
	defer server.Close()

	src := NewSource("ESPN", server.URL, newTestClient(t, nil, 3))
	rows, err := src.Projections(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ESPN", src.Name())
	assert.Equal(t, sampleRows, rows)
}

func TestFeedClientRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(sampleRows)
	}))
	defer server.Close()

	rows, err := NewFeedSource("CBS", server.URL, newTestClient(t, nil, 3)).Projections(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFeedClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFeedSource("NFL", server.URL, newTestClient(t, nil, 3)).Projections(context.Background())

	assert.ErrorIs(t, err, utils.ErrSourceUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFeedClientUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := services.NewCacheService(client)

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(sampleRows)
	}))
	defer server.Close()

	src := NewFeedSource("ESPN", server.URL, newTestClient(t, cache, 1))
	for i := 0; i < 3; i++ {
		rows, err := src.Projections(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sampleRows, rows)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("ffdata:"+services.SourceCacheKey(KindProjections, "ESPN", server.URL, 2025)))
}

func TestFeedClientCachesKindsSeparately(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := services.NewCacheService(client)

	projServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleRows)
	}))
	defer projServer.Close()

	adpRows := []RawADPRow{{Name: "Josh Allen", Position: "QB", Team: "BUF", Bye: 7, Format: FormatStandard, ADP: 20}}
	adpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(adpRows)
	}))
	defer adpServer.Close()

	feed := newTestClient(t, cache, 1)

	rows, err := NewFeedSource("FantasyPros", projServer.URL, feed).Projections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRows, rows)

	adp, err := NewFeedSource("FantasyPros", adpServer.URL, feed).ADP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, adpRows, adp)

	// both payloads stay cached under their own keys
	rows, err = NewFeedSource("FantasyPros", projServer.URL, feed).Projections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRows, rows)
	assert.True(t, mr.Exists("ffdata:"+services.SourceCacheKey(KindADP, "FantasyPros", adpServer.URL, 2025)))
}

func TestFeedClientBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>blocked</html>"))
	}))
	defer server.Close()

	_, err := NewFeedSource("ESPN", server.URL, newTestClient(t, nil, 1)).Projections(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, utils.ErrSourceUnavailable)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adp.json")
	adp := []RawADPRow{{Name: "Bijan Robinson", Position: "RB", Team: "ATL", Bye: 12, Format: FormatPPR, ADP: 3.1}}
	data, err := json.Marshal(adp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	src := NewSource("FantasyPros", path, nil)
	_, isFile := src.(*FileSource)
	assert.True(t, isFile)

	rows, err := src.ADP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, adp, rows)

	_, err = NewFileSource("missing", filepath.Join(dir, "nope.json")).Projections(context.Background())
	assert.Error(t, err)
}
