package fw

import "sync"

// Reserved strategy names for the concrete strategies this module ships.
const (
	StrategyBestRoute2       = "best-route-v2"
	StrategyPITlessBestRoute = "pitless-best-route"
	StrategyPITlessMulticast = "pitless-multicast"
	StrategyBridgeBestRoute  = "bridge-best-route"
)

var (
	registryMu        sync.Mutex
	classicalRegistry = map[string]func() Strategy{}
	pitlessRegistry   = map[string]func() PITlessStrategy{}
	bridgeRegistry    = map[string]func() BridgeStrategy{}
)

// RegisterStrategy adds a classical strategy factory to the process-wide
// registry. Idempotent: registering the same name twice is a no-op for
// the second call, so repeated package-init registration never
// double-installs.
func RegisterStrategy(name string, factory func() Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := classicalRegistry[name]; !ok {
		classicalRegistry[name] = factory
	}
}

// RegisterPITlessStrategy adds a PIT-less strategy factory to the registry.
func RegisterPITlessStrategy(name string, factory func() PITlessStrategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := pitlessRegistry[name]; !ok {
		pitlessRegistry[name] = factory
	}
}

// RegisterBridgeStrategy adds a bridge strategy factory to the registry.
func RegisterBridgeStrategy(name string, factory func() BridgeStrategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := bridgeRegistry[name]; !ok {
		bridgeRegistry[name] = factory
	}
}

// Each concrete strategy registers itself in its own init(), the same way
// every strategy in the forwarding core this package is grounded on does
// (see bestroute2.go, pitless_bestroute.go, pitless_multicast.go,
// bridge_bestroute.go). Registration order across files never matters:
// RegisterStrategy and friends are idempotent.

// InstallAllClassicalStrategies instantiates every registered classical
// strategy against fw and installs it into fw's strategy table, skipping
// any name already installed. Call order across registrations never
// matters: this is the explicit, non-static-init entry point the registry
// design favors over relying on package init ordering.
func InstallAllClassicalStrategies(fw *Forwarder) {
	registryMu.Lock()
	snapshot := make(map[string]func() Strategy, len(classicalRegistry))
	for k, v := range classicalRegistry {
		snapshot[k] = v
	}
	registryMu.Unlock()

	for name, factory := range snapshot {
		if _, ok := fw.strategies[name]; ok {
			continue
		}
		s := factory()
		s.Instantiate(fw)
		fw.strategies[name] = s
	}
}

// InstallAllPITlessStrategies instantiates and installs every registered
// PIT-less strategy against fw.
func InstallAllPITlessStrategies(fw *PITlessForwarder) {
	registryMu.Lock()
	snapshot := make(map[string]func() PITlessStrategy, len(pitlessRegistry))
	for k, v := range pitlessRegistry {
		snapshot[k] = v
	}
	registryMu.Unlock()

	for name, factory := range snapshot {
		if _, ok := fw.strategies[name]; ok {
			continue
		}
		s := factory()
		s.InstantiatePITless(fw)
		fw.strategies[name] = s
	}
}

// InstallAllBridgeStrategies instantiates and installs every registered
// bridge strategy against fw.
func InstallAllBridgeStrategies(fw *BridgeForwarder) {
	registryMu.Lock()
	snapshot := make(map[string]func() BridgeStrategy, len(bridgeRegistry))
	for k, v := range bridgeRegistry {
		snapshot[k] = v
	}
	registryMu.Unlock()

	for name, factory := range snapshot {
		if _, ok := fw.strategies[name]; ok {
			continue
		}
		s := factory()
		s.InstantiateBridge(fw)
		fw.strategies[name] = s
	}
}
