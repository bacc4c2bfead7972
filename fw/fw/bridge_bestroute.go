package fw

import (
	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/table"
)

// BridgeBestRoute is the bridge plane's own strategy family: it picks the
// first next hop whose face id differs from the Interest's incoming face.
// The bridge's actual Interest-miss path dispatches into the PIT-less
// registry by constant name instead of through this family (see the
// BridgeStrategy doc comment); BridgeBestRoute is still registered and
// installable, and its decision can be exercised directly.
type BridgeBestRoute struct {
	strategyBaseBridge
}

func init() {
	RegisterBridgeStrategy(StrategyBridgeBestRoute, func() BridgeStrategy {
		return &BridgeBestRoute{strategyBaseBridge{name: StrategyBridgeBestRoute}}
	})
}

// AfterReceiveInterestBridge forwards to the first next hop not equal to
// the incoming face, dropping if no such next hop exists.
func (s *BridgeBestRoute) AfterReceiveInterestBridge(inFace defn.FaceId, interest *defn.FwInterest, fibEntry *table.FibEntry) {
	if fibEntry == nil {
		core.Log.Debug(s, "no fib entry for interest", "name", interest.NameV.String())
		return
	}
	for _, nh := range fibEntry.GetNextHops() {
		if nh.Nexthop != inFace {
			core.Log.Trace(s, "forwarding interest", "name", interest.NameV.String(), "face", nh.Nexthop)
			s.fw.SendInterestDirect(interest, nh.Nexthop)
			return
		}
	}
	core.Log.Debug(s, "no eligible nexthop, dropping", "name", interest.NameV.String())
}

// BeforeSatisfyInterestBridge is a notification-only hook.
func (s *BridgeBestRoute) BeforeSatisfyInterestBridge(inFace defn.FaceId, data *defn.FwData) {
}
