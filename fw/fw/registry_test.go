package fw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
)

func TestRegisterStrategyIsIdempotent(t *testing.T) {
	calls := 0
	name := "test-idempotent-classical"
	RegisterStrategy(name, func() Strategy {
		calls++
		return &BestRoute2{strategyBaseClassical{name: name}}
	})
	RegisterStrategy(name, func() Strategy {
		calls++
		return &BestRoute2{strategyBaseClassical{name: name}}
	})

	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 8), sched, time.Minute, core.NoopDelayCallbacks())

	require.Contains(t, fw.strategies, name)
	require.Equal(t, 1, calls, "the second registration under the same name must never run")
}

func TestInstallAllClassicalStrategiesInstallsEveryBuiltin(t *testing.T) {
	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 8), sched, time.Minute, core.NoopDelayCallbacks())

	require.Contains(t, fw.strategies, StrategyBestRoute2)
}

func TestInstallAllPITlessStrategiesInstallsEveryBuiltin(t *testing.T) {
	faces := face.NewTable()
	fw := NewPITlessForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 8), core.NoopDelayCallbacks())

	require.Contains(t, fw.strategies, StrategyPITlessBestRoute)
	require.Contains(t, fw.strategies, StrategyPITlessMulticast)
}

func TestInstallAllBridgeStrategiesInstallsEveryBuiltin(t *testing.T) {
	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewBridgeForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 8), sched, time.Minute, nil, "", core.NoopDelayCallbacks())

	require.Contains(t, fw.strategies, StrategyBridgeBestRoute)
	require.Contains(t, fw.pitlessStrategies, StrategyPITlessBestRoute)
	require.Contains(t, fw.pitlessStrategies, StrategyPITlessMulticast)
}
