package fw

import (
	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/table"
)

// PITlessMulticast sends an Interest to every FIB next hop, since without
// a PIT there is no per-name aggregation to make a single-path choice
// beneficial.
type PITlessMulticast struct {
	strategyBasePITless
}

func init() {
	RegisterPITlessStrategy(StrategyPITlessMulticast, func() PITlessStrategy {
		return &PITlessMulticast{strategyBasePITless{name: StrategyPITlessMulticast}}
	})
}

// AfterReceiveInterestPITless forwards to every next hop in the FIB entry.
func (s *PITlessMulticast) AfterReceiveInterestPITless(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry) {
	if fibEntry == nil || len(fibEntry.GetNextHops()) == 0 {
		core.Log.Debug(s, "no nexthop for interest", "name", interest.NameV.String())
		return
	}
	for _, nh := range fibEntry.GetNextHops() {
		core.Log.Trace(s, "forwarding interest", "name", interest.NameV.String(), "face", nh.Nexthop)
		s.sender.SendInterest(interest, nh.Nexthop)
	}
}

// BeforeSatisfyInterestPITless is a notification-only hook.
func (s *PITlessMulticast) BeforeSatisfyInterestPITless(inFace defn.FaceId, data *defn.FwData) {
}
