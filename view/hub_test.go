package view

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T, hub *Hub, initial *Frame) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("profile"), initial, nil)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, profile string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?profile=" + profile
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func waitConnections(t *testing.T, hub *Hub, profile string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Connections(profile) == n }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_FansOutPerProfile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub(nil)
	srv := startHub(t, hub, nil)

	tabA := dial(t, srv, "p1")
	tabB := dial(t, srv, "p1")
	other := dial(t, srv, "p2")
	waitConnections(t, hub, "p1", 2)
	waitConnections(t, hub, "p2", 1)

	hub.Publish("p1", Frame{CartCount: 4})

	assert.Equal(t, 4, readFrame(t, tabA).CartCount)
	assert.Equal(t, 4, readFrame(t, tabB).CartCount)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "other profiles must not receive the frame")

	for _, c := range []*websocket.Conn{tabA, tabB, other} {
		_ = c.Close()
	}
	waitConnections(t, hub, "p1", 0)
	waitConnections(t, hub, "p2", 0)
	srv.Close()
}

func TestHub_SendsInitialFrame(t *testing.T) {
	hub := NewHub(nil)
	srv := startHub(t, hub, &Frame{CartCount: 7, SignedIn: true})

	conn := dial(t, srv, "p1")
	defer conn.Close()

	f := readFrame(t, conn)
	assert.Equal(t, 7, f.CartCount)
	assert.True(t, f.SignedIn)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	srv := startHub(t, hub, nil)
	conn := dial(t, srv, "p1")
	defer conn.Close()
	waitConnections(t, hub, "p1", 1)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, hub.Connections("p1"))

	hub.Publish("p1", Frame{CartCount: 1})
}

func TestHub_PublishDuringRegistrationFollowsInitial(t *testing.T) {
	hub := NewHub(nil)
	var counted atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "p1", &Frame{CartCount: 1}, func() {
			counted.Store(int32(hub.Connections("p1")))
			hub.Publish("p1", Frame{CartCount: 2})
		})
	}))
	defer srv.Close()

	conn := dial(t, srv, "p1")
	defer conn.Close()

	assert.Equal(t, 1, readFrame(t, conn).CartCount)
	assert.Equal(t, 2, readFrame(t, conn).CartCount)
	assert.EqualValues(t, 1, counted.Load())
}
