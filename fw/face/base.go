package face

import (
	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/std/types/lockfree"
)

// InboundSink is the forwarder-side half of a face: whatever OnIncomingInterest/
// OnIncomingData a Base drains its queue into. Forwarder, PITlessForwarder and
// BridgeForwarder all satisfy this structurally.
type InboundSink interface {
	OnIncomingInterest(inFace defn.FaceId, interest *defn.FwInterest)
	OnIncomingData(inFace defn.FaceId, data *defn.FwData)
}

type inboundEvent struct {
	interest *defn.FwInterest
	data     *defn.FwData
}

// Base is embedded by every transport-backed Face (TCPFace, WSFace). A
// transport's own read goroutine decodes bytes off the wire and calls
// PostInterest/PostData; Base queues the decoded packet and nudges the
// reactor, which drains it and calls into the sink on the single
// forwarding goroutine. This is the one place packets cross from a
// transport's goroutine onto the reactor.
type Base struct {
	id                    defn.FaceId
	local, pitless, bridge bool

	sched *core.Scheduler
	sink  InboundSink
	in    *lockfree.YiQueue[inboundEvent]
}

// NewBase constructs a Base and registers its drain function with sched, so
// every reactor wakeup gives this face's queue a chance to empty.
func NewBase(id defn.FaceId, local, pitless, bridge bool, sched *core.Scheduler, sink InboundSink) *Base {
	b := &Base{
		id:      id,
		local:   local,
		pitless: pitless,
		bridge:  bridge,
		sched:   sched,
		sink:    sink,
		in:      lockfree.NewYiQueue[inboundEvent](),
	}
	sched.OnWake(b.drain)
	return b
}

func (b *Base) ID() defn.FaceId { return b.id }
func (b *Base) IsLocal() bool   { return b.local }
func (b *Base) IsPITless() bool { return b.pitless }
func (b *Base) IsBridge() bool  { return b.bridge }

// PostInterest hands a decoded Interest from a transport's read goroutine
// to the reactor goroutine. Safe to call from any goroutine.
func (b *Base) PostInterest(interest *defn.FwInterest) {
	b.in.Push(inboundEvent{interest: interest})
	b.sched.Nudge()
}

// PostData hands a decoded Data packet to the reactor goroutine. Safe to
// call from any goroutine.
func (b *Base) PostData(data *defn.FwData) {
	b.in.Push(inboundEvent{data: data})
	b.sched.Nudge()
}

func (b *Base) drain() {
	for ev := range b.in.Iter() {
		if ev.interest != nil {
			b.sink.OnIncomingInterest(b.id, ev.interest)
		} else {
			b.sink.OnIncomingData(b.id, ev.data)
		}
	}
}
