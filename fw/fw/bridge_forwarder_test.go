package fw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
	enc "github.com/ndnfw/planes/std/encoding"
)

func newTestBridgeForwarder(t *testing.T, supportingName enc.Name) (*BridgeForwarder, *face.Table) {
	t.Helper()
	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewBridgeForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 64), sched, time.Minute, supportingName, "", core.NoopDelayCallbacks())
	return fw, faces
}

func TestBridgeForwarderRewritesSupportingNameAndKeepsPitEntry(t *testing.T) {
	supporting, _ := enc.NameFromStr("/bridge/42")
	fw, faces := newTestBridgeForwarder(t, supporting)
	f1 := face.NewMemFace(1, false, false, true)
	f2 := face.NewMemFace(2, false, true, true)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/c")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	iname, _ := enc.NameFromStr("/c/y")
	interest := &defn.FwInterest{NameV: iname}
	interest.NonceV.Set(7)
	fw.OnIncomingInterest(f1.ID(), interest)

	require.Len(t, f2.SentInterests(), 1)
	sent := f2.SentInterests()[0]
	require.True(t, sent.NameV.Equal(iname))
	require.True(t, sent.SupportingNameV.Equal(supporting))
	nonce, ok := sent.NonceV.Get()
	require.True(t, ok)
	require.Equal(t, uint32(7), nonce)

	require.Equal(t, 1, fw.pit.Size(), "the bridge plane keeps a pit entry on ingress")
}

func TestBridgeForwarderDefaultsFallbackToPITlessBestRoute(t *testing.T) {
	supporting, _ := enc.NameFromStr("/bridge/1")
	fw, faces := newTestBridgeForwarder(t, supporting)
	f1 := face.NewMemFace(1, false, false, true)
	f2 := face.NewMemFace(2, false, true, true)
	f3 := face.NewMemFace(3, false, true, true)
	faces.Add(f1)
	faces.Add(f2)
	faces.Add(f3)

	name, _ := enc.NameFromStr("/c")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)
	fw.Fib().AddOrUpdateNextHop(name, f3.ID(), 20)

	iname, _ := enc.NameFromStr("/c/y")
	fw.OnIncomingInterest(f1.ID(), &defn.FwInterest{NameV: iname})

	require.Len(t, f2.SentInterests(), 1)
	require.Empty(t, f3.SentInterests(), "default fallback is best-route, a single next hop")
}

func TestBridgeForwarderContentStoreHitSkipsFallbackDispatch(t *testing.T) {
	supporting, _ := enc.NameFromStr("/bridge/1")
	fw, faces := newTestBridgeForwarder(t, supporting)
	f1 := face.NewMemFace(1, false, false, true)
	f2 := face.NewMemFace(2, false, true, true)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/c")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	cached, _ := enc.NameFromStr("/c/y")
	data := &defn.FwData{NameV: cached, Content: []byte("cached")}
	data.FreshnessV.Set(time.Minute)
	fw.cs.Insert(data, time.Now())

	fw.OnIncomingInterest(f1.ID(), &defn.FwInterest{NameV: cached})

	require.Len(t, f1.SentData(), 1)
	require.Empty(t, f2.SentInterests())
}

func TestBridgeForwarderUsesConfiguredFallbackStrategy(t *testing.T) {
	supporting, _ := enc.NameFromStr("/bridge/1")
	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewBridgeForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 64), sched, time.Minute, supporting, StrategyPITlessMulticast, core.NoopDelayCallbacks())

	f1 := face.NewMemFace(1, false, false, true)
	f2 := face.NewMemFace(2, false, true, true)
	f3 := face.NewMemFace(3, false, true, true)
	faces.Add(f1)
	faces.Add(f2)
	faces.Add(f3)

	name, _ := enc.NameFromStr("/c")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)
	fw.Fib().AddOrUpdateNextHop(name, f3.ID(), 20)

	iname, _ := enc.NameFromStr("/c/y")
	fw.OnIncomingInterest(f1.ID(), &defn.FwInterest{NameV: iname})

	require.Len(t, f2.SentInterests(), 1)
	require.Len(t, f3.SentInterests(), 1, "a multicast fallback must forward to every next hop")
}

func TestBridgeForwarderDataForwardsByFibMatchOnDataName(t *testing.T) {
	supporting, _ := enc.NameFromStr("/bridge/1")
	fw, faces := newTestBridgeForwarder(t, supporting)
	f1 := face.NewMemFace(1, false, false, true)
	f2 := face.NewMemFace(2, false, true, true)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/c")
	fw.Fib().AddOrUpdateNextHop(name, f1.ID(), 10)

	dname, _ := enc.NameFromStr("/c/y")
	data := &defn.FwData{NameV: dname, SupportingNameV: supporting, Content: []byte("x")}
	fw.OnIncomingData(f2.ID(), data)

	require.Len(t, f1.SentData(), 1)
}
