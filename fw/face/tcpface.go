package face

import (
	"net"
	"sync"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
)

// TCPFace is a Face backed by a plain TCP connection, framed with the
// length-prefixed gob frame format in wire.go, accepted with the same
// accept-loop shape as fw/face/tcp-listener.go; TLV framing and
// congestion control are transport internals this module doesn't
// prescribe.
type TCPFace struct {
	*Base
	conn net.Conn

	writeMu sync.Mutex
	closeOnce sync.Once
}

// DialTCP dials addr and wraps the resulting connection as a Face with
// the given local/pitless/bridge flags, for the outgoing side of a
// statically configured TCP link.
func DialTCP(addr string, id defn.FaceId, local, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) (*TCPFace, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewTCPFace(id, conn, local, pitless, bridge, sched, sink), nil
}

// NewTCPFace wraps conn as a Face, registers it with sched/sink through an
// embedded Base, and starts the read loop on its own goroutine.
func NewTCPFace(id defn.FaceId, conn net.Conn, local, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) *TCPFace {
	f := &TCPFace{
		Base: NewBase(id, local, pitless, bridge, sched, sink),
		conn: conn,
	}
	go f.readLoop()
	return f
}

func (f *TCPFace) readLoop() {
	defer f.conn.Close()
	for {
		fr, err := readFrame(f.conn)
		if err != nil {
			core.Log.Debug(f, "tcp face read loop exiting", "face", f.ID(), "err", err)
			return
		}
		switch fr.Kind {
		case frameInterest:
			f.PostInterest(decodeInterest(fr.Interest))
		case frameData:
			f.PostData(decodeData(fr.Data))
		}
	}
}

func (f *TCPFace) String() string { return "face.tcp" }

// SendInterest writes interest to the underlying connection.
func (f *TCPFace) SendInterest(interest *defn.FwInterest) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return writeFrame(f.conn, encodeInterest(interest))
}

// SendData writes data to the underlying connection.
func (f *TCPFace) SendData(data *defn.FwData) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return writeFrame(f.conn, encodeData(data))
}

// Close shuts down the underlying connection. Safe to call more than once.
func (f *TCPFace) Close() error {
	var err error
	f.closeOnce.Do(func() { err = f.conn.Close() })
	return err
}

// TCPListener accepts inbound TCP connections and wires each one up as a
// new non-local TCPFace, handing the Face to onAccept (typically
// face.Table.Add plus a FIB registration) as it's created.
type TCPListener struct {
	ln      net.Listener
	sched   *core.Scheduler
	sink    InboundSink
	nextID  uint64
	pitless bool
	bridge  bool
}

// ListenTCP starts accepting connections on addr.
func ListenTCP(addr string, startID defn.FaceId, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPListener{ln: ln, sched: sched, sink: sink, nextID: uint64(startID), pitless: pitless, bridge: bridge}, nil
}

// Accept loops accepting inbound connections, handing each new TCPFace to
// onAccept, and returns only the error that ends the loop (for example
// once the listener is closed).
func (l *TCPListener) Accept(onAccept func(*TCPFace)) error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		l.nextID++
		face := NewTCPFace(defn.FaceId(l.nextID), conn, false, l.pitless, l.bridge, l.sched, l.sink)
		if onAccept != nil {
			onAccept(face)
		}
	}
}

// Close stops accepting new connections.
func (l *TCPListener) Close() error {
	return l.ln.Close()
}
