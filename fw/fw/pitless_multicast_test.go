package fw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	enc "github.com/ndnfw/planes/std/encoding"
)

func TestPITlessMulticastDropsWithNoNextHop(t *testing.T) {
	fw, faces := newTestPITlessForwarder(t)
	f1 := face.NewMemFace(1, false, true, false)
	faces.Add(f1)
	fw.StrategyChoice().Install(enc.Name{}, StrategyPITlessMulticast)

	iname, _ := enc.NameFromStr("/unreachable/1")
	require.NotPanics(t, func() {
		fw.OnIncomingInterest(f1.ID(), &defn.FwInterest{NameV: iname})
	})
	require.Empty(t, f1.SentInterests())
}

func TestPITlessMulticastDoesNotSkipIncomingFace(t *testing.T) {
	// Unlike the classical and bridge best-route strategies, multicast has
	// no pit entry to consult for where an interest came from on this
	// plane and forwards to every registered next hop, including one that
	// happens to equal the arrival face if the fib was configured that way.
	fw, faces := newTestPITlessForwarder(t)
	f1 := face.NewMemFace(1, false, true, false)
	faces.Add(f1)
	fw.StrategyChoice().Install(enc.Name{}, StrategyPITlessMulticast)

	name, _ := enc.NameFromStr("/b")
	fw.Fib().AddOrUpdateNextHop(name, f1.ID(), 1)

	iname, _ := enc.NameFromStr("/b/1")
	fw.OnIncomingInterest(f1.ID(), &defn.FwInterest{NameV: iname})

	require.Len(t, f1.SentInterests(), 1)
}
