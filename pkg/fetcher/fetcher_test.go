package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/learnmap/pkg/caching"
)

func TestGetHtmlBytes(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Contains(t, r.Header.Get("User-Agent"), "learnmap")
		_, _ = w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer srv.Close()

	body, err := NewFetcher(time.Second).GetHtmlBytes(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<html><body><p>hello</p></body></html>", string(body))
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetHtmlBytes_Cached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("page"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	f := NewFetcher(time.Second, WithCache(cache))

	for i := 0; i < 3; i++ {
		body, err := f.GetHtmlBytes(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "page", string(body))
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetHtmlBytes_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()
	f := NewFetcher(time.Second)

	_, err := f.GetHtmlBytes(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status code: 410")

	_, err = f.GetHtmlBytes(context.Background(), "not a url")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.GetHtmlBytes(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
