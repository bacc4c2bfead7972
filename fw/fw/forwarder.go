package fw

import (
	"time"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
)

// DefaultInterestLifetime is used for In/OutRecord expiry when an
// Interest's own lifetime is unspecified.
const DefaultInterestLifetime = 4 * time.Second

// StragglerTime is how long a satisfied PIT entry lingers before finalize,
// to absorb a short burst of duplicate Data.
const StragglerTime = 10 * time.Millisecond

// Forwarder is the classical, PIT-based forwarding plane.
type Forwarder struct {
	id       core.Id
	faces    *face.Table
	fib      *table.Fib
	pit      *table.Pit
	cs       *table.Cs
	deadNonce *table.DeadNonceList
	strategyChoice *table.StrategyChoice
	strategies     map[string]Strategy
	scheduler      *core.Scheduler
	delay          core.DelayCallbacks
	Counters       Counters
}

func (fw *Forwarder) String() string { return "forwarder.classical" }

// NewForwarder constructs a classical forwarder, instantiates every
// registered classical strategy, and gives its strategy-choice table
// BestRoute2 as the default.
func NewForwarder(id core.Id, faces *face.Table, cs *table.Cs, scheduler *core.Scheduler, deadNonceTTL time.Duration, delay core.DelayCallbacks) *Forwarder {
	if delay.OnInterest == nil && delay.OnContent == nil {
		delay = core.NoopDelayCallbacks()
	}
	fw := &Forwarder{
		id:             id,
		faces:          faces,
		fib:            table.NewFib(),
		pit:            table.NewPit(),
		cs:             cs,
		deadNonce:      table.NewDeadNonceList(deadNonceTTL),
		strategyChoice: table.NewStrategyChoice(StrategyBestRoute2),
		strategies:     make(map[string]Strategy),
		scheduler:      scheduler,
		delay:          delay,
	}
	InstallAllClassicalStrategies(fw)
	return fw
}

// Fib exposes the classical plane's FIB for administrative mutation.
func (fw *Forwarder) Fib() *table.Fib { return fw.fib }

// StrategyChoice exposes the strategy-choice table for administrative
// mutation (installing a non-default strategy over a prefix).
func (fw *Forwarder) StrategyChoice() *table.StrategyChoice { return fw.strategyChoice }

// Faces exposes the face table an admin handler consults to validate a
// FaceId before registering it as a next hop.
func (fw *Forwarder) Faces() *face.Table { return fw.faces }

// HasStrategy reports whether name was installed on this forwarder at
// construction time (InstallAllClassicalStrategies), the set of names an
// admin set-strategy request is allowed to reference.
func (fw *Forwarder) HasStrategy(name string) bool {
	_, ok := fw.strategies[name]
	return ok
}

func (fw *Forwarder) reportInterestDelay(start time.Time) {
	fw.delay.OnInterest(int(fw.id), time.Now(), time.Since(start))
}

func (fw *Forwarder) reportContentDelay(start time.Time) {
	fw.delay.OnContent(int(fw.id), time.Now(), time.Since(start))
}

// OnIncomingInterest runs the classical Interest ingress pipeline.
func (fw *Forwarder) OnIncomingInterest(inFace defn.FaceId, interest *defn.FwInterest) {
	start := time.Now()
	interest.InFace.Set(inFace)
	fw.Counters.NInInterests++

	f := fw.faces.Get(inFace)
	if f != nil && !f.IsLocal() && defn.LocalhostName.IsPrefix(interest.NameV) {
		core.Log.Debug(fw, "scope violation, dropping", "name", interest.NameV.String(), "face", inFace)
		fw.reportInterestDelay(start)
		return
	}

	pitEntry, _ := fw.pit.FindOrInsert(interest.NameV, false, false)

	nonce, hasNonce := interest.NonceV.Get()
	if hasNonce {
		if pitEntry.FindNonce(nonce, inFace) || fw.deadNonce.Has(interest.NameV, nonce, start) {
			fw.onInterestLoop(inFace, interest, pitEntry)
			fw.reportInterestDelay(start)
			return
		}
	}

	fw.cancelTimers(pitEntry)

	hasPending := len(pitEntry.InRecords) > 0
	pitEntry.InsertInRecord(interest, inFace, start, DefaultInterestLifetime)

	if hasPending {
		fw.armUnsatisfyTimer(pitEntry)
		fw.reportInterestDelay(start)
		return
	}

	fw.cs.Find(interest, false, true, start, func(entry *table.CsEntry) {
		if entry != nil {
			fw.onContentStoreHit(inFace, interest, pitEntry, entry)
		} else {
			fw.onContentStoreMiss(inFace, interest, pitEntry)
		}
		fw.reportInterestDelay(start)
	})
}

func (fw *Forwarder) onInterestLoop(inFace defn.FaceId, interest *defn.FwInterest, pitEntry *table.PitEntry) {
	core.Log.Debug(fw, "interest loop detected", "name", interest.NameV.String(), "face", inFace)
	// A real Nack emission belongs to the face collaborator; the core's
	// obligation ends at not forwarding and not mutating the PIT entry.
	_ = pitEntry
}

func (fw *Forwarder) onContentStoreHit(inFace defn.FaceId, interest *defn.FwInterest, pitEntry *table.PitEntry, entry *table.CsEntry) {
	strategy := fw.effectiveStrategyForEntry(pitEntry)
	data := entry.Data
	if strategy != nil {
		strategy.BeforeSatisfyInterest(pitEntry, defn.FaceIdContentStore, data)
	}
	out := *data
	out.InFace.Set(defn.FaceIdContentStore)
	fw.sendDataToFace(&out, inFace)
}

func (fw *Forwarder) armUnsatisfyTimer(pitEntry *table.PitEntry) {
	latest := pitEntry.ExpirationTime
	for _, rec := range pitEntry.InRecords {
		if rec.ExpirationTime.After(latest) {
			latest = rec.ExpirationTime
		}
	}
	pitEntry.ExpirationTime = latest
	d := time.Until(latest)
	if d < 0 {
		d = 0
	}
	id := fw.scheduler.Schedule(d, func() { fw.onInterestUnsatisfied(pitEntry) })
	pitEntry.UnsatisfyTimer = id
}

func (fw *Forwarder) cancelTimers(pitEntry *table.PitEntry) {
	if id, ok := pitEntry.UnsatisfyTimer.(core.TimerId); ok {
		fw.scheduler.Cancel(id)
		pitEntry.UnsatisfyTimer = nil
	}
	if id, ok := pitEntry.StragglerTimer.(core.TimerId); ok {
		fw.scheduler.Cancel(id)
		pitEntry.StragglerTimer = nil
	}
}

func (fw *Forwarder) onContentStoreMiss(inFace defn.FaceId, interest *defn.FwInterest, pitEntry *table.PitEntry) {
	fw.armUnsatisfyTimer(pitEntry)

	fibEntry := fw.fib.FindLongestPrefixMatch(interest.NameV)
	strategy := fw.effectiveStrategyForEntry(pitEntry)
	if strategy == nil {
		core.Log.Fatal(fw, "no effective strategy for pit entry", "name", interest.NameV.String())
		return
	}
	strategy.AfterReceiveInterest(inFace, interest, fibEntry, pitEntry)
}

func (fw *Forwarder) effectiveStrategyForEntry(pitEntry *table.PitEntry) Strategy {
	name := fw.strategyChoice.FindEffectiveStrategy(pitEntry.EncName)
	return fw.strategies[name]
}

// SendInterest is the outgoing-Interest pipeline used by classical
// strategies to emit their forwarding decision. A zero outFace is
// rejected per the invalid-egress-face error kind.
func (fw *Forwarder) SendInterest(pitEntry *table.PitEntry, interest *defn.FwInterest, outFace, inFace defn.FaceId, wantNewNonce bool) {
	if outFace == defn.InvalidFaceId {
		core.Log.Warn(fw, "rejecting egress on invalid face")
		return
	}
	f := fw.faces.Get(outFace)
	if f == nil {
		core.Log.Warn(fw, "stale face reference, skipping nexthop", "face", outFace)
		return
	}

	out := interest.Clone()
	if wantNewNonce {
		out.NonceV.Set(core.NewNonce())
	}
	now := time.Now()
	pitEntry.InsertOutRecord(out, outFace, now, DefaultInterestLifetime)

	if err := f.SendInterest(out); err != nil {
		core.Log.Warn(fw, "send interest failed", "face", outFace, "err", err)
	}
}

// RejectPendingInterest is called by a classical strategy when no viable
// next hop exists; it leaves PIT state untouched (the entry still awaits
// its unsatisfy timer) but gives the strategy a place to record/trace the
// rejection.
func (fw *Forwarder) RejectPendingInterest(pitEntry *table.PitEntry) {
	core.Log.Debug(fw, "no viable next-hop, rejecting pending interest", "name", pitEntry.EncName.String())
}

func (fw *Forwarder) onInterestUnsatisfied(pitEntry *table.PitEntry) {
	if !fw.pit.Contains(pitEntry) {
		return
	}
	for _, rec := range pitEntry.OutRecords {
		fw.deadNonce.Add(pitEntry.EncName, rec.LatestNonce, time.Now())
	}
	fw.pit.Erase(pitEntry)
}

// OnIncomingData runs the classical Data ingress pipeline.
func (fw *Forwarder) OnIncomingData(inFace defn.FaceId, data *defn.FwData) {
	start := time.Now()
	data.InFace.Set(inFace)
	fw.Counters.NInDatas++

	f := fw.faces.Get(inFace)
	if f != nil && !f.IsLocal() && defn.LocalhostName.IsPrefix(data.NameV) {
		core.Log.Debug(fw, "scope violation on data, dropping", "name", data.NameV.String())
		fw.reportContentDelay(start)
		return
	}

	stripped := data.StripTransportTags()
	fw.cs.Insert(stripped, start)

	matches := fw.pit.FindAllDataMatches(data.NameV)
	for _, entry := range matches {
		fw.cancelTimers(entry)
		entry.Satisfied = true

		strategy := fw.effectiveStrategyForEntry(entry)
		if strategy != nil {
			strategy.BeforeSatisfyInterest(entry, inFace, data)
		}

		for faceId := range entry.InRecords {
			if faceId == inFace {
				continue
			}
			fw.sendDataToFace(data, faceId)
		}
		entry.ClearInRecords()

		for _, rec := range entry.OutRecords {
			fw.deadNonce.Add(entry.EncName, rec.LatestNonce, start)
		}

		fw.armStragglerTimer(entry)
	}

	fw.reportContentDelay(start)
}

func (fw *Forwarder) armStragglerTimer(pitEntry *table.PitEntry) {
	id := fw.scheduler.Schedule(StragglerTime, func() { fw.onInterestFinalize(pitEntry) })
	pitEntry.StragglerTimer = id
}

func (fw *Forwarder) onInterestFinalize(pitEntry *table.PitEntry) {
	if !fw.pit.Contains(pitEntry) {
		return
	}
	fw.pit.Erase(pitEntry)
}

func (fw *Forwarder) sendDataToFace(data *defn.FwData, outFace defn.FaceId) {
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
