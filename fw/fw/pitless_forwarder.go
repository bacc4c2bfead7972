package fw

import (
	"time"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
)

// PITlessForwarder is the stateless plane: no PIT, no Dead-Nonce list, no
// Unsatisfy/Straggler timers. Every decision is made from a single FIB
// lookup per packet.
type PITlessForwarder struct {
	id             core.Id
	faces          *face.Table
	fib            *table.Fib
	cs             *table.Cs
	strategyChoice *table.StrategyChoice
	strategies     map[string]PITlessStrategy
	delay          core.DelayCallbacks
	Counters       Counters
}

func (fw *PITlessForwarder) String() string { return "forwarder.pitless" }

// NewPITlessForwarder constructs a PIT-less forwarder with every
// registered PIT-less strategy installed, PITlessBestRoute as default.
func NewPITlessForwarder(id core.Id, faces *face.Table, cs *table.Cs, delay core.DelayCallbacks) *PITlessForwarder {
	if delay.OnInterest == nil && delay.OnContent == nil {
		delay = core.NoopDelayCallbacks()
	}
	fw := &PITlessForwarder{
		id:             id,
		faces:          faces,
		fib:            table.NewFib(),
		cs:             cs,
		strategyChoice: table.NewStrategyChoice(StrategyPITlessBestRoute),
		strategies:     make(map[string]PITlessStrategy),
		delay:          delay,
	}
	InstallAllPITlessStrategies(fw)
	return fw
}

// Fib exposes the PIT-less plane's FIB for administrative mutation.
func (fw *PITlessForwarder) Fib() *table.Fib { return fw.fib }

// StrategyChoice exposes the strategy-choice table for administrative
// mutation.
func (fw *PITlessForwarder) StrategyChoice() *table.StrategyChoice { return fw.strategyChoice }

// Faces exposes the face table an admin handler consults to validate a
// FaceId before registering it as a next hop.
func (fw *PITlessForwarder) Faces() *face.Table { return fw.faces }

// HasStrategy reports whether name was installed on this forwarder.
func (fw *PITlessForwarder) HasStrategy(name string) bool {
	_, ok := fw.strategies[name]
	return ok
}

func (fw *PITlessForwarder) reportInterestDelay(start time.Time) {
	fw.delay.OnInterest(int(fw.id), time.Now(), time.Since(start))
}

func (fw *PITlessForwarder) reportContentDelay(start time.Time) {
	fw.delay.OnContent(int(fw.id), time.Now(), time.Since(start))
}

// OnIncomingInterest runs the PIT-less Interest ingress pipeline.
func (fw *PITlessForwarder) OnIncomingInterest(inFace defn.FaceId, interest *defn.FwInterest) {
	start := time.Now()
	interest.InFace.Set(inFace)
	fw.Counters.NInInterests++

	f := fw.faces.Get(inFace)
	if f != nil && !f.IsLocal() && defn.LocalhostName.IsPrefix(interest.NameV) {
		core.Log.Debug(fw, "scope violation, dropping", "name", interest.NameV.String())
		fw.reportInterestDelay(start)
		return
	}

	fw.cs.Find(interest, false, true, start, func(entry *table.CsEntry) {
		if entry != nil {
			strategyName := fw.strategyChoice.FindEffectiveStrategy(interest.NameV)
			if strategy := fw.strategies[strategyName]; strategy != nil {
				strategy.BeforeSatisfyInterestPITless(defn.FaceIdContentStore, entry.Data)
			}
			out := *entry.Data
			out.InFace.Set(defn.FaceIdContentStore)
			fw.sendDataToFace(&out, inFace)
		} else {
			fibEntry := fw.fib.FindLongestPrefixMatch(interest.NameV)
			strategyName := fw.strategyChoice.FindEffectiveStrategy(interest.NameV)
			strategy := fw.strategies[strategyName]
			if strategy == nil {
				core.Log.Fatal(fw, "no effective pitless strategy", "name", interest.NameV.String())
				return
			}
			strategy.AfterReceiveInterestPITless(inFace, interest, fibEntry)
		}
		fw.reportInterestDelay(start)
	})
}

// SendInterest is the outgoing-Interest pipeline a PIT-less strategy uses
// to emit its forwarding decision. No nonce-renewal path is engaged on
// this plane.
func (fw *PITlessForwarder) SendInterest(interest *defn.FwInterest, outFace defn.FaceId) {
	if outFace == defn.InvalidFaceId {
		core.Log.Warn(fw, "rejecting egress on invalid face")
		return
	}
	f := fw.faces.Get(outFace)
	if f == nil {
		core.Log.Warn(fw, "stale face reference, skipping nexthop", "face", outFace)
		return
	}
	if err := f.SendInterest(interest); err != nil {
		core.Log.Warn(fw, "send interest failed", "face", outFace, "err", err)
	}
}

func (fw *PITlessForwarder) sendDataToFace(data *defn.FwData, outFace defn.FaceId) {
	if outFace == defn.InvalidFaceId {
		core.Log.Warn(fw, "rejecting data egress on invalid face")
		return
	}
	f := fw.faces.Get(outFace)
	if f == nil {
		core.Log.Warn(fw, "stale face reference, dropping data egress", "face", outFace)
		return
	}
	if err := f.SendData(data); err != nil {
		core.Log.Warn(fw, "send data failed", "face", outFace, "err", err)
	}
}

// OnIncomingData runs the PIT-less Data ingress pipeline: scope check
// against the supporting name, CS insert, then a single FIB match on the
// Data's own name picks the first next hop whose face differs from the
// one Data arrived on.
func (fw *PITlessForwarder) OnIncomingData(inFace defn.FaceId, data *defn.FwData) {
	start := time.Now()
	data.InFace.Set(inFace)
	fw.Counters.NInDatas++

	f := fw.faces.Get(inFace)
	scopeName := data.SupportingNameV
	if len(scopeName) == 0 {
		scopeName = data.NameV
	}
	if f != nil && !f.IsLocal() && defn.LocalhostName.IsPrefix(scopeName) {
		core.Log.Debug(fw, "scope violation on data, dropping", "name", scopeName.String())
		fw.reportContentDelay(start)
		return
	}

	fw.cs.Insert(data.StripTransportTags(), start)

	fibEntry := fw.fib.FindLongestPrefixMatch(data.NameV)
	if fibEntry != nil {
		for _, nh := range fibEntry.GetNextHops() {
			if nh.Nexthop != inFace {
				fw.sendDataToFace(data, nh.Nexthop)
				break
			}
		}
	}
	fw.reportContentDelay(start)
}
