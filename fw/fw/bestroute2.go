package fw

import (
	"time"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/table"
)

// retransmissionSuppression is the minimum time between forwarding the
// same pending Interest out a given face again.
const retransmissionSuppression = 500 * time.Millisecond

// BestRoute2 is the default classical strategy: among FIB next hops other
// than the one the Interest arrived on, pick the lowest-cost one that
// hasn't been tried recently.
type BestRoute2 struct {
	strategyBaseClassical
}

func init() {
	RegisterStrategy(StrategyBestRoute2, func() Strategy {
		return &BestRoute2{strategyBaseClassical{name: StrategyBestRoute2}}
	})
}

// AfterReceiveInterest picks the lowest-cost eligible next hop and
// forwards the Interest to it, rejecting the pending Interest if none
// qualifies.
func (s *BestRoute2) AfterReceiveInterest(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry, pitEntry *table.PitEntry) {
	if fibEntry == nil || len(fibEntry.GetNextHops()) == 0 {
		core.Log.Debug(s, "no nexthop for interest", "name", interest.NameV.String())
		s.fw.RejectPendingInterest(pitEntry)
		return
	}

	now := time.Now()
	var best *table.FibNextHopEntry
	for _, nh := range fibEntry.GetNextHops() {
		if nh.Nexthop == inFace {
			continue
		}
		if out, ok := pitEntry.OutRecords[nh.Nexthop]; ok && out.LatestTimestamp.Add(retransmissionSuppression).After(now) {
			continue
		}
		if best == nil || nh.Cost < best.Cost {
			best = nh
		}
	}

	if best == nil {
		core.Log.Debug(s, "no eligible nexthop for interest", "name", interest.NameV.String())
		s.fw.RejectPendingInterest(pitEntry)
		return
	}

	core.Log.Trace(s, "forwarding interest", "name", interest.NameV.String(), "face", best.Nexthop)
	s.fw.SendInterest(pitEntry, interest, best.Nexthop, inFace, false)
}

// BeforeSatisfyInterest is a no-op for BestRoute2: the classical pipeline
// itself performs Data egress to every waiting InRecord face.
func (s *BestRoute2) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace defn.FaceId, data *defn.FwData) {
}
