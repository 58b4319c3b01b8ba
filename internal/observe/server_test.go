package observe

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tejashwikalptaru/govis/internal/testutil"
)

func TestServer_ServesAndShutsDown(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "govis_frames_rendered_total 1\n")
	})
	srv, err := NewServer("127.0.0.1:0", handler)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(srv.Serve)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Contains(t, string(body), "govis_frames_rendered_total")

	resp, err = client.Get("http://" + srv.Addr() + "/other")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	client.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, g.Wait())
}

func TestNewServer_BindError(t *testing.T) {
	_, err := NewServer("256.0.0.1:0", http.NotFoundHandler())
	assert.Error(t, err)
}
