package fw

import (
	"time"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
	enc "github.com/ndnfw/planes/std/encoding"
)

// BridgeForwarder keeps a classical PIT on its ingress but rewrites
// outgoing Interests with a configured SupportingName, dispatching the
// rewritten Interest into the PIT-less plane so its strategies route
// replies back through the bridge.
type BridgeForwarder struct {
	id                core.Id
	faces             *face.Table
	fib               *table.Fib
	pit               *table.Pit
	cs                *table.Cs
	deadNonce         *table.DeadNonceList
	strategyChoice    *table.StrategyChoice
	strategies        map[string]BridgeStrategy
	pitlessStrategies map[string]PITlessStrategy
	scheduler         *core.Scheduler
	delay             core.DelayCallbacks
	Counters          Counters

	supportingName enc.Name
	// fallbackStrategy is the PIT-less-plane strategy name the bridge's
	// Interest-miss path dispatches into by exact-name lookup, bypassing
	// findEffectiveStrategy. A constructor parameter rather than a literal
	// so the choice of downstream strategy is testable.
	fallbackStrategy string
}

func (fw *BridgeForwarder) String() string { return "forwarder.bridge" }

// NewBridgeForwarder constructs a bridge forwarder rewriting outgoing
// Interests with supportingName, falling back into the PIT-less
// fallbackStrategy (default StrategyPITlessBestRoute if empty) for every
// Interest miss.
func NewBridgeForwarder(id core.Id, faces *face.Table, cs *table.Cs, scheduler *core.Scheduler, deadNonceTTL time.Duration, supportingName enc.Name, fallbackStrategy string, delay core.DelayCallbacks) *BridgeForwarder {
	if fallbackStrategy == "" {
		fallbackStrategy = StrategyPITlessBestRoute
	}
	if delay.OnInterest == nil && delay.OnContent == nil {
		delay = core.NoopDelayCallbacks()
	}
	fw := &BridgeForwarder{
		id:                id,
		faces:             faces,
		fib:               table.NewFib(),
		pit:               table.NewPit(),
		cs:                cs,
		deadNonce:         table.NewDeadNonceList(deadNonceTTL),
		strategyChoice:    table.NewStrategyChoice(StrategyBridgeBestRoute),
		strategies:        make(map[string]BridgeStrategy),
		pitlessStrategies: make(map[string]PITlessStrategy),
		scheduler:         scheduler,
		delay:             delay,
		supportingName:    supportingName,
		fallbackStrategy:  fallbackStrategy,
	}
	InstallAllBridgeStrategies(fw)
	fw.installPITlessFallbackStrategies()
	return fw
}

// installPITlessFallbackStrategies instantiates every registered
// PIT-less strategy bound to this bridge, so whichever registered name
// fallbackStrategy holds (set at construction or by SetFallbackStrategy)
// resolves to an instance.
func (fw *BridgeForwarder) installPITlessFallbackStrategies() {
	registryMu.Lock()
	snapshot := make(map[string]func() PITlessStrategy, len(pitlessRegistry))
	for k, v := range pitlessRegistry {
		snapshot[k] = v
	}
	registryMu.Unlock()

	for name, factory := range snapshot {
		fw.pitlessStrategies[name] = factory()
	}
}

// bridgePITlessSender adapts one bridge Interest-miss dispatch into the
// PITlessSender interface a PIT-less strategy expects, threading the
// classical PIT entry through so the eventual egress Interest still
// updates its OutRecord bookkeeping.
type bridgePITlessSender struct {
	fw       *BridgeForwarder
	pitEntry *table.PitEntry
}

func (s *bridgePITlessSender) SendInterest(interest *defn.FwInterest, outFace defn.FaceId) {
	s.fw.sendInterestToFallback(s.pitEntry, interest, outFace)
}

// SupportingName returns the name stamped onto outgoing Interests.
func (fw *BridgeForwarder) SupportingName() enc.Name { return fw.supportingName }

// SetSupportingName updates the name stamped onto outgoing Interests.
func (fw *BridgeForwarder) SetSupportingName(name enc.Name) { fw.supportingName = name }

// Fib exposes the bridge plane's FIB for administrative mutation.
func (fw *BridgeForwarder) Fib() *table.Fib { return fw.fib }

// StrategyChoice exposes the bridge plane's own strategy-choice table.
// Its effective value is only consulted by a future pipeline variant
// that routes Interest-miss through AfterReceiveInterestBridge; the
// current miss path dispatches by fallbackStrategy instead (see
// SetFallbackStrategy).
func (fw *BridgeForwarder) StrategyChoice() *table.StrategyChoice { return fw.strategyChoice }

// Faces exposes the face table an admin handler consults to validate a
// FaceId before registering it as a next hop.
func (fw *BridgeForwarder) Faces() *face.Table { return fw.faces }

// FallbackStrategy returns the PIT-less strategy name the bridge's
// Interest-miss path currently dispatches into.
func (fw *BridgeForwarder) FallbackStrategy() string { return fw.fallbackStrategy }

// SetFallbackStrategy changes the PIT-less strategy name used on Interest
// miss, so an admin can retune a running bridge without restarting it.
func (fw *BridgeForwarder) SetFallbackStrategy(name string) { fw.fallbackStrategy = name }

// HasPITlessStrategy reports whether name was installed as one of this
// bridge's fallback-capable PIT-less strategies (installPITlessFallbackStrategies),
// the set of names SetFallbackStrategy is allowed to reference.
func (fw *BridgeForwarder) HasPITlessStrategy(name string) bool {
	_, ok := fw.pitlessStrategies[name]
	return ok
}

// HasStrategy reports whether name was installed as one of this bridge's
// own BridgeStrategy family, the set StrategyChoice.Install is allowed to
// reference.
func (fw *BridgeForwarder) HasStrategy(name string) bool {
	_, ok := fw.strategies[name]
	return ok
}

func (fw *BridgeForwarder) reportInterestDelay(start time.Time) {
	fw.delay.OnInterest(int(fw.id), time.Now(), time.Since(start))
}

func (fw *BridgeForwarder) reportContentDelay(start time.Time) {
	fw.delay.OnContent(int(fw.id), time.Now(), time.Since(start))
}

// OnIncomingInterest runs the bridge Interest ingress pipeline: identical
// PIT bookkeeping to the classical plane, but on a Content-Store miss it
// rewrites the Interest's supporting name and dispatches into the
// PIT-less plane's fallback strategy instead of a classical one.
func (fw *BridgeForwarder) OnIncomingInterest(inFace defn.FaceId, interest *defn.FwInterest) {
	start := time.Now()
	interest.InFace.Set(inFace)
	fw.Counters.NInInterests++

	f := fw.faces.Get(inFace)
	if f != nil && !f.IsLocal() && defn.LocalhostName.IsPrefix(interest.NameV) {
		core.Log.Debug(fw, "scope violation, dropping", "name", interest.NameV.String())
		fw.reportInterestDelay(start)
		return
	}

	pitEntry, _ := fw.pit.FindOrInsert(interest.NameV, false, false)

	nonce, hasNonce := interest.NonceV.Get()
	if hasNonce {
		if pitEntry.FindNonce(nonce, inFace) || fw.deadNonce.Has(interest.NameV, nonce, start) {
			core.Log.Debug(fw, "interest loop detected", "name", interest.NameV.String())
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
			fw.onContentStoreHit(inFace, pitEntry, entry)
		} else {
			fw.onContentStoreMiss(inFace, interest, pitEntry)
		}
		fw.reportInterestDelay(start)
	})
}

func (fw *BridgeForwarder) onContentStoreHit(inFace defn.FaceId, pitEntry *table.PitEntry, entry *table.CsEntry) {
	if strategy := fw.pitlessStrategies[fw.fallbackStrategy]; strategy != nil {
		strategy.BeforeSatisfyInterestPITless(defn.FaceIdContentStore, entry.Data)
	}
	out := *entry.Data
	out.InFace.Set(defn.FaceIdContentStore)
	fw.sendDataToFace(&out, inFace)
}

func (fw *BridgeForwarder) onContentStoreMiss(inFace defn.FaceId, interest *defn.FwInterest, pitEntry *table.PitEntry) {
	// A nil pitEntry is tolerated: no Unsatisfy timer is armed, and
	// sendInterestToFallback skips the OutRecord insert.
	if pitEntry != nil {
		fw.armUnsatisfyTimer(pitEntry)
	}

	fibEntry := fw.fib.FindLongestPrefixMatch(interest.NameV)

	rewritten := interest.Clone()
	rewritten.SupportingNameV = fw.supportingName

	strategy, ok := fw.pitlessStrategies[fw.fallbackStrategy]
	if !ok {
		core.Log.Fatal(fw, "fallback pitless strategy unknown, broken registry installation", "strategy", fw.fallbackStrategy)
		return
	}
	strategy.InstantiatePITless(&bridgePITlessSender{fw: fw, pitEntry: pitEntry})
	strategy.AfterReceiveInterestPITless(inFace, rewritten, fibEntry)
}

func (fw *BridgeForwarder) armUnsatisfyTimer(pitEntry *table.PitEntry) {
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

func (fw *BridgeForwarder) cancelTimers(pitEntry *table.PitEntry) {
	if id, ok := pitEntry.UnsatisfyTimer.(core.TimerId); ok {
		fw.scheduler.Cancel(id)
		pitEntry.UnsatisfyTimer = nil
	}
	if id, ok := pitEntry.StragglerTimer.(core.TimerId); ok {
		fw.scheduler.Cancel(id)
		pitEntry.StragglerTimer = nil
	}
}

func (fw *BridgeForwarder) onInterestUnsatisfied(pitEntry *table.PitEntry) {
	if !fw.pit.Contains(pitEntry) {
		return
	}
	for _, rec := range pitEntry.OutRecords {
		fw.deadNonce.Add(pitEntry.EncName, rec.LatestNonce, time.Now())
	}
	fw.pit.Erase(pitEntry)
}

// sendInterestToFallback lets the PIT-less fallback strategy emit its
// decision across the bridge via bridgePITlessSender; the strategy itself
// never sees the classical PIT, so out-record bookkeeping happens here
// from the bridge's own pipeline rather than inside the strategy call.
func (fw *BridgeForwarder) sendInterestToFallback(pitEntry *table.PitEntry, interest *defn.FwInterest, outFace defn.FaceId) {
	if outFace == defn.InvalidFaceId {
		core.Log.Warn(fw, "rejecting egress on invalid face")
		return
	}
	f := fw.faces.Get(outFace)
	if f == nil {
		core.Log.Warn(fw, "stale face reference, skipping nexthop", "face", outFace)
		return
	}
	// BridgeForwarder::onContentStoreMiss tolerates a null pitEntry here by
	// skipping the OutRecord insert; call sites that have one always pass
	// it, but this mirrors the upstream tolerance rather than panicking.
	if pitEntry != nil {
		pitEntry.InsertOutRecord(interest, outFace, time.Now(), DefaultInterestLifetime)
	}
	if err := f.SendInterest(interest); err != nil {
		core.Log.Warn(fw, "send interest failed", "face", outFace, "err", err)
	}
}

// SendInterestDirect is the Send primitive BridgeStrategy implementations
// use. It performs no PIT bookkeeping: BridgeStrategy is not on the
// pipeline's actual Interest-miss path (see the BridgeStrategy doc
// comment), so it has no PIT entry to attach an OutRecord to.
func (fw *BridgeForwarder) SendInterestDirect(interest *defn.FwInterest, outFace defn.FaceId) {
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

func (fw *BridgeForwarder) sendDataToFace(data *defn.FwData, outFace defn.FaceId) {
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

// OnIncomingData runs the bridge Data ingress pipeline: scope check
// against the supporting name, CS insert, then FIB longest-prefix match
// on the Data's own name picks the first next hop whose face differs from
// the one Data arrived on.
func (fw *BridgeForwarder) OnIncomingData(inFace defn.FaceId, data *defn.FwData) {
	start := time.Now()
	data.InFace.Set(inFace)
	fw.Counters.NInDatas++

	scopeName := data.SupportingNameV
	if len(scopeName) == 0 {
		scopeName = data.NameV
	}
	f := fw.faces.Get(inFace)
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
