package inspect

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/particles"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningSystem(t *testing.T) *particles.System {
	t.Helper()
	s := particles.NewSystem()
	s.SetMaxParticles(20)
	s.SetNumToRelease(5)
	require.NoError(t, s.Initialize(particles.NewByteSink(20)))
	s.Update(0.1)
	require.Equal(t, 5, s.ActiveCount())
	return s
}

func dial(t *testing.T, srv *Server) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return srv.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return ts, conn
}

func TestFrameFromSystemLimit(t *testing.T) {
	s := newRunningSystem(t)

	f := FrameFromSystem(s, 3)
	assert.Equal(t, s.ID().String(), f.System)
	assert.Equal(t, uint64(1), f.Frame)
	assert.Equal(t, 20, f.Capacity)
	assert.Equal(t, 5, f.Stats.Active)
	assert.Len(t, f.Particles, 3)
	require.NotNil(t, f.Settings)
	assert.Equal(t, "bounce", f.Settings.Response)

	assert.Empty(t, FrameFromSystem(s, 0).Particles)
}

func TestPublishReachesClient(t *testing.T) {
	srv := NewServer(nil)
	defer srv.Close()
	_, conn := dial(t, srv)

	s := newRunningSystem(t)
	require.NoError(t, srv.Publish(FrameFromSystem(s, 10)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint64(1), got.Frame)
	assert.Len(t, got.Particles, 5)
	assert.Equal(t, 5, got.Stats.Emitted)
}

func TestFrameEndpoint(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frame")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, srv.Publish(FrameFromSystem(newRunningSystem(t), 0)))
	resp, err = http.Get(ts.URL + "/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var f Frame
	require.NoError(t, json.Unmarshal(body, &f))
	assert.Equal(t, 5, f.Stats.Active)
}

func TestCommandsAreQueuedForHost(t *testing.T) {
	srv := NewServer(nil)
	defer srv.Close()
	_, conn := dial(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("bogus")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(CommandReset)))

	s := newRunningSystem(t)
	paused := false
	obs := &Observer{Server: srv, Limit: 1, Pause: func() { paused = true }}

	require.Eventually(t, func() bool {
		obs.Observe(s)
		return s.ActiveCount() == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(CommandPause)))
	require.Eventually(t, func() bool {
		obs.Observe(s)
		return paused
	}, time.Second, 5*time.Millisecond)
}

func TestCloseDisconnectsClients(t *testing.T) {
	srv := NewServer(nil)
	_, conn := dial(t, srv)

	require.NoError(t, srv.Close())
	assert.Zero(t, srv.Clients())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestListenAfterCloseReturnsClosed(t *testing.T) {
	srv := NewServer(nil)
	require.NoError(t, srv.Close())

	err := srv.ListenAndServe("127.0.0.1:0")
	assert.ErrorIs(t, err, http.ErrServerClosed)
}
