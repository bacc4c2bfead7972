package face

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	enc "github.com/ndnfw/planes/std/encoding"
)

func newTestWSServer(t *testing.T, sched *core.Scheduler, sink InboundSink, accepted chan *WSFace) *httptest.Server {
	u := NewWSUpgrader(false, false, sched, sink)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.ServeHTTP(w, r, func(f *WSFace) { accepted <- f })
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWSFaceReadLoopDeliversDataToSink(t *testing.T) {
	sched := core.NewScheduler()
	sink := &recordingSink{}
	accepted := make(chan *WSFace, 1)
	srv := newTestWSServer(t, sched, sink, accepted)

	client := dialWS(t, srv)

	go sched.Run()
	defer sched.Stop()

	select {
	case <-accepted:
	case <-time.After(time.Second):
		t.Fatal("server never accepted connection")
	}

	name, _ := enc.NameFromStr("/a/b")
	data := &defn.FwData{NameV: name, Content: []byte("hi")}
	b, err := encodeFrameBytes(encodeData(data))
	require.NoError(t, err)
	require.NoError(t, client.WriteMessage(websocket.BinaryMessage, b))

	require.Eventually(t, func() bool {
		_, d := sink.counts()
		return d == 1
	}, time.Second, time.Millisecond)
}

func TestWSFaceSendDataReachesClient(t *testing.T) {
	sched := core.NewScheduler()
	sink := &recordingSink{}
	accepted := make(chan *WSFace, 1)
	srv := newTestWSServer(t, sched, sink, accepted)

	client := dialWS(t, srv)

	var serverFace *WSFace
	select {
	case serverFace = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("server never accepted connection")
	}

	name, _ := enc.NameFromStr("/z")
	data := &defn.FwData{NameV: name, Content: []byte("payload")}
	require.NoError(t, serverFace.SendData(data))

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)

	fr, err := decodeFrameBytes(msg)
	require.NoError(t, err)
	require.Equal(t, frameData, fr.Kind)
	got := decodeData(fr.Data)
	require.True(t, got.NameV.Equal(name))
	require.Equal(t, []byte("payload"), got.Content)
}

func TestWSUpgraderAssignsIncrementingFaceIds(t *testing.T) {
	sched := core.NewScheduler()
	sink := &recordingSink{}
	accepted := make(chan *WSFace, 2)
	srv := newTestWSServer(t, sched, sink, accepted)

	dialWS(t, srv)
	dialWS(t, srv)

	var ids []defn.FaceId
	for i := 0; i < 2; i++ {
		select {
		case f := <-accepted:
			ids = append(ids, f.ID())
		case <-time.After(time.Second):
			t.Fatal("server never accepted connection")
		}
	}

	require.NotEqual(t, ids[0], ids[1])
}
