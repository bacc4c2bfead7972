package face

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
)

// WSFace is a Face backed by a websocket connection, one gob frame per
// websocket message, wrapping gorilla/websocket for a browser-reachable
// face.
type WSFace struct {
	*Base
	conn *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// DialWS dials addr (a ws:// or wss:// URL) and wraps the resulting
// connection as a Face, for the outgoing side of a statically configured
// websocket link.
func DialWS(addr string, id defn.FaceId, local, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) (*WSFace, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, err
	}
	return NewWSFace(id, conn, local, pitless, bridge, sched, sink), nil
}

// NewWSFace wraps conn as a Face and starts its read loop.
func NewWSFace(id defn.FaceId, conn *websocket.Conn, local, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) *WSFace {
	f := &WSFace{
		Base: NewBase(id, local, pitless, bridge, sched, sink),
		conn: conn,
	}
	go f.readLoop()
	return f
}

func (f *WSFace) readLoop() {
	defer f.conn.Close()
	for {
		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			core.Log.Debug(f, "ws face read loop exiting", "face", f.ID(), "err", err)
			return
		}
		fr, err := decodeFrameBytes(msg)
		if err != nil {
			core.Log.Warn(f, "dropping malformed ws frame", "face", f.ID(), "err", err)
			continue
		}
		switch fr.Kind {
		case frameInterest:
			f.PostInterest(decodeInterest(fr.Interest))
		case frameData:
			f.PostData(decodeData(fr.Data))
		}
	}
}

func (f *WSFace) String() string { return "face.ws" }

// SendInterest writes interest as one binary websocket message.
func (f *WSFace) SendInterest(interest *defn.FwInterest) error {
	b, err := encodeFrameBytes(encodeInterest(interest))
	if err != nil {
		return err
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.conn.WriteMessage(websocket.BinaryMessage, b)
}

// SendData writes data as one binary websocket message.
func (f *WSFace) SendData(data *defn.FwData) error {
	b, err := encodeFrameBytes(encodeData(data))
	if err != nil {
		return err
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.conn.WriteMessage(websocket.BinaryMessage, b)
}

// Close shuts down the underlying connection. Safe to call more than once.
func (f *WSFace) Close() error {
	var err error
	f.closeOnce.Do(func() { err = f.conn.Close() })
	return err
}

// WSUpgrader adapts an http.Handler endpoint into a source of WSFaces,
// upgrading each accepted request and wiring the resulting face up through
// onAccept.
type WSUpgrader struct {
	upgrader websocket.Upgrader
	sched    *core.Scheduler
	sink     InboundSink
	nextID   atomic.Uint64
	pitless  bool
	bridge   bool
}

// NewWSUpgrader constructs a WSUpgrader accepting connections from any
// origin, the permissive default a browser-reachable face needs.
func NewWSUpgrader(pitless, bridge bool, sched *core.Scheduler, sink InboundSink) *WSUpgrader {
	return &WSUpgrader{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		sched:    sched,
		sink:     sink,
		pitless:  pitless,
		bridge:   bridge,
	}
}

// ServeHTTP upgrades the request to a websocket and wires up a new WSFace,
// handing it to onAccept before returning.
func (u *WSUpgrader) ServeHTTP(w http.ResponseWriter, r *http.Request, onAccept func(*WSFace)) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.Log.Warn(core.StringModule("face.ws.upgrader"), "upgrade failed", "err", err)
		return
	}
	id := u.nextID.Add(1)
	face := NewWSFace(defn.FaceId(id), conn, false, u.pitless, u.bridge, u.sched, u.sink)
	if onAccept != nil {
		onAccept(face)
	}
}
