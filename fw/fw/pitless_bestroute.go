package fw

import (
	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/table"
)

// PITlessBestRoute picks the first next hop a canForward predicate admits.
// The default predicate admits every next hop; it exists as a field
// rather than a hardcoded "true" so a deployment can plug in its own
// forwarding-eligibility rule without subclassing.
type PITlessBestRoute struct {
	strategyBasePITless
	CanForward func(nh *table.FibNextHopEntry, inFace defn.FaceId) bool
}

func init() {
	RegisterPITlessStrategy(StrategyPITlessBestRoute, func() PITlessStrategy {
		return &PITlessBestRoute{strategyBasePITless: strategyBasePITless{name: StrategyPITlessBestRoute}}
	})
}

func (s *PITlessBestRoute) canForward(nh *table.FibNextHopEntry, inFace defn.FaceId) bool {
	if s.CanForward != nil {
		return s.CanForward(nh, inFace)
	}
	return true
}

// AfterReceiveInterestPITless forwards to the first admissible next hop.
func (s *PITlessBestRoute) AfterReceiveInterestPITless(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry) {
	if fibEntry == nil {
		core.Log.Debug(s, "no fib entry for interest", "name", interest.NameV.String())
		return
	}
	for _, nh := range fibEntry.GetNextHops() {
		if s.canForward(nh, inFace) {
			core.Log.Trace(s, "forwarding interest", "name", interest.NameV.String(), "face", nh.Nexthop)
			s.sender.SendInterest(interest, nh.Nexthop)
			return
		}
	}
	core.Log.Debug(s, "no admissible nexthop, dropping", "name", interest.NameV.String())
}

// BeforeSatisfyInterestPITless is a notification-only hook; the pipeline
// performs the actual Data egress.
func (s *PITlessBestRoute) BeforeSatisfyInterestPITless(inFace defn.FaceId, data *defn.FwData) {
}
