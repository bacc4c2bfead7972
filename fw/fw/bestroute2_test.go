package fw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	enc "github.com/ndnfw/planes/std/encoding"
)

func TestBestRoute2PicksLowestCostEligibleNextHop(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	f3 := face.NewMemFace(3, false, false, false)
	faces.Add(f1)
	faces.Add(f2)
	faces.Add(f3)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 20)
	fw.Fib().AddOrUpdateNextHop(name, f3.ID(), 5)

	iname, _ := enc.NameFromStr("/a/1")
	interest := &defn.FwInterest{NameV: iname}
	interest.NonceV.Set(1)
	fw.OnIncomingInterest(f1.ID(), interest)

	require.Empty(t, f2.SentInterests())
	require.Len(t, f3.SentInterests(), 1, "lower cost must win")
}

func TestBestRoute2SkipsIncomingFace(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	faces.Add(f1)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f1.ID(), 1)

	iname, _ := enc.NameFromStr("/a/1")
	interest := &defn.FwInterest{NameV: iname}
	interest.NonceV.Set(1)
	fw.OnIncomingInterest(f1.ID(), interest)

	require.Empty(t, f1.SentInterests(), "a strategy must never send an interest back out its own arrival face")
}

func TestBestRoute2SuppressesRetransmissionWithinWindow(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	iname, _ := enc.NameFromStr("/a/1")
	pitEntry, _ := fw.pit.FindOrInsert(iname, false, false)
	pitEntry.InsertOutRecord(&defn.FwInterest{NameV: iname}, f2.ID(), time.Now(), time.Minute)

	fibEntry := fw.Fib().FindLongestPrefixMatch(iname)
	strategy := fw.strategies[StrategyBestRoute2].(*BestRoute2)
	strategy.AfterReceiveInterest(f1.ID(), &defn.FwInterest{NameV: iname}, fibEntry, pitEntry)

	require.Empty(t, f2.SentInterests(), "a next hop tried within the suppression window must not be retried")
}

func TestBestRoute2RejectsWithNoNextHop(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	faces.Add(f1)

	iname, _ := enc.NameFromStr("/unreachable/1")
	interest := &defn.FwInterest{NameV: iname}
	interest.NonceV.Set(1)
	require.NotPanics(t, func() {
		fw.OnIncomingInterest(f1.ID(), interest)
	})
}
