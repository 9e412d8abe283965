//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Client implements docpipe.HTMLClient.
var _ docpipe.HTMLClient = (*rod.Client)(nil)

func TestClient_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that delays response
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Don't respond - let context timeout
		select {}
	}))
	defer srv.Close()

	client, err := rod.NewClient()
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err = client.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	client, err := rod.NewClient()
	require.NoError(t, err)
	defer client.Close()

	html, err := client.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "JavaScript Rendered")
	assert.NotContains(t, html, "Loading...")
}

func TestClient_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	// Server that delays longer than the fetch timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	// Use a short timeout for testing (100ms, shorter than server delay)
	client, err := rod.NewClient(rod.WithFetchTimeout(100 * time.Millisecond))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	_, err = client.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Close_Idempotent(t *testing.T) {
	t.Parallel()

	client, err := rod.NewClient()
	require.NoError(t, err)

	// First close should succeed
	err = client.Close()
	require.NoError(t, err)

	// Second close should also succeed (not panic or error)
	err = client.Close()
	require.NoError(t, err)
}

func TestClient_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	client, err := rod.NewClient()
	require.NoError(t, err)

	err = client.Close()
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, docpipe.EINVALID, docpipe.ErrorCode(err))
	assert.Contains(t, docpipe.ErrorMessage(err), "closed")
}
