// Package fw implements the three forwarding pipelines (classical,
// PIT-less, bridge), the strategy families each pipeline dispatches into,
// and the process-wide strategy registries from which a forwarder
// instantiates its strategies at construction time.
package fw

import (
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/table"
)

// Strategy is the classical, PIT-bound decision trigger: invoked once per
// Content-Store miss, with the PIT entry the Interest aggregated into.
type Strategy interface {
	Name() string
	Instantiate(fw *Forwarder)
	AfterReceiveInterest(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry, pitEntry *table.PitEntry)
	BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace defn.FaceId, data *defn.FwData)
}

// PITlessSender is what a PITlessStrategy uses to emit its forwarding
// decision. PITlessForwarder implements it directly; BridgeForwarder
// implements it through a small per-dispatch adapter so the same strategy
// instance can be shared by both planes without knowing which one it's
// serving.
type PITlessSender interface {
	SendInterest(interest *defn.FwInterest, outFace defn.FaceId)
}

// PITlessStrategy is invoked by the PIT-less pipeline (directly, or by a
// bridge forwarder dispatching across plane boundaries) with no PIT entry
// in hand at all: every decision is made from the FIB match alone.
type PITlessStrategy interface {
	Name() string
	InstantiatePITless(sender PITlessSender)
	AfterReceiveInterestPITless(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry)
	BeforeSatisfyInterestPITless(inFace defn.FaceId, data *defn.FwData)
}

// BridgeStrategy is the bridge plane's own family. A bridge forwarder's
// Interest-miss path dispatches into the PIT-less registry by a constant
// name rather than through this family; BridgeStrategy implementations are
// still registered and installable, and exist to be exercised directly or
// by a future pipeline variant that wires its Interest-miss path through
// AfterReceiveInterestBridge instead.
type BridgeStrategy interface {
	Name() string
	InstantiateBridge(fw *BridgeForwarder)
	AfterReceiveInterestBridge(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry)
	BeforeSatisfyInterestBridge(inFace defn.FaceId, data *defn.FwData)
}

// strategyBaseClassical is embedded by every classical strategy to give it
// a named back-reference to its forwarder plus the Send helpers the
// forwarder exposes.
type strategyBaseClassical struct {
	name string
	fw   *Forwarder
}

func (b *strategyBaseClassical) Name() string { return b.name }
func (b *strategyBaseClassical) String() string { return b.name }

func (b *strategyBaseClassical) Instantiate(fw *Forwarder) { b.fw = fw }

type strategyBasePITless struct {
	name   string
	sender PITlessSender
}

func (b *strategyBasePITless) Name() string   { return b.name }
func (b *strategyBasePITless) String() string { return b.name }

func (b *strategyBasePITless) InstantiatePITless(sender PITlessSender) { b.sender = sender }

type strategyBaseBridge struct {
	name string
	fw   *BridgeForwarder
}

func (b *strategyBaseBridge) Name() string   { return b.name }
func (b *strategyBaseBridge) String() string { return b.name }

func (b *strategyBaseBridge) InstantiateBridge(fw *BridgeForwarder) { b.fw = fw }
