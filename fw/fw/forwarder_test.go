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

func newTestForwarder(t *testing.T) (*Forwarder, *face.Table, *core.Scheduler) {
	t.Helper()
	faces := face.NewTable()
	sched := core.NewScheduler()
	fw := NewForwarder(1, faces, table.NewCs(table.NewMemoryCsStore(), 64), sched, time.Minute, core.NoopDelayCallbacks())
	return fw, faces, sched
}

func TestForwarderForwardsInterestAndRecordsInRecord(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	interestName, _ := enc.NameFromStr("/a/1")
	interest := &defn.FwInterest{NameV: interestName}
	interest.NonceV.Set(0xDEAD)

	fw.OnIncomingInterest(f1.ID(), interest)

	require.Len(t, f2.SentInterests(), 1)
	require.Equal(t, interestName, f2.SentInterests()[0].NameV)
	require.Equal(t, 1, fw.pit.Size())
}

func TestForwarderSecondInterestFromSameFaceDoesNotReforward(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	interestName, _ := enc.NameFromStr("/a/1")
	interest1 := &defn.FwInterest{NameV: interestName}
	interest1.NonceV.Set(1)
	fw.OnIncomingInterest(f1.ID(), interest1)
	require.Len(t, f2.SentInterests(), 1)

	interest2 := &defn.FwInterest{NameV: interestName}
	interest2.NonceV.Set(2)
	fw.OnIncomingInterest(f1.ID(), interest2)

	require.Len(t, f2.SentInterests(), 1, "a second Interest from the same face must aggregate, not reforward")
}

func TestForwarderDuplicateNonceIsLoop(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	f3 := face.NewMemFace(3, false, false, false)
	faces.Add(f1)
	faces.Add(f2)
	faces.Add(f3)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	interestName, _ := enc.NameFromStr("/a/1")
	interest1 := &defn.FwInterest{NameV: interestName}
	interest1.NonceV.Set(0xDEAD)
	fw.OnIncomingInterest(f1.ID(), interest1)
	require.Len(t, f2.SentInterests(), 1)

	interest2 := &defn.FwInterest{NameV: interestName}
	interest2.NonceV.Set(0xDEAD)
	fw.OnIncomingInterest(f3.ID(), interest2)

	require.Len(t, f2.SentInterests(), 1, "duplicate nonce must be treated as a loop, never forwarded again")
}

func TestForwarderDataSatisfiesAndCachesAndStartsStraggler(t *testing.T) {
	fw, faces, sched := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	interestName, _ := enc.NameFromStr("/a/1")
	interest := &defn.FwInterest{NameV: interestName}
	interest.NonceV.Set(1)
	fw.OnIncomingInterest(f1.ID(), interest)
	require.Equal(t, 1, fw.pit.Size())

	data := &defn.FwData{NameV: interestName, Content: []byte("hello")}
	data.FreshnessV.Set(time.Minute)
	fw.OnIncomingData(f2.ID(), data)

	require.Len(t, f1.SentData(), 1)
	require.Equal(t, []byte("hello"), f1.SentData()[0].Content)
	require.Equal(t, 1, fw.cs.Len())

	sched.RunUntilIdle()
	time.Sleep(2 * StragglerTime)
	sched.RunUntilIdle()
	require.Equal(t, 0, fw.pit.Size(), "straggler timer must finalize the entry")
}

func TestForwarderContentStoreHitAnswersWithoutForwarding(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	f2 := face.NewMemFace(2, false, false, false)
	faces.Add(f1)
	faces.Add(f2)

	name, _ := enc.NameFromStr("/a")
	fw.Fib().AddOrUpdateNextHop(name, f2.ID(), 10)

	cached, _ := enc.NameFromStr("/a/1")
	data := &defn.FwData{NameV: cached, Content: []byte("cached")}
	data.FreshnessV.Set(time.Minute)
	fw.cs.Insert(data, time.Now())

	interest := &defn.FwInterest{NameV: cached}
	interest.NonceV.Set(9)
	fw.OnIncomingInterest(f1.ID(), interest)

	require.Len(t, f1.SentData(), 1)
	require.Empty(t, f2.SentInterests(), "a content store hit must not forward the interest")
}

func TestForwarderRejectsScopeViolationOnNonLocalFace(t *testing.T) {
	fw, faces, _ := newTestForwarder(t)
	f1 := face.NewMemFace(1, false, false, false)
	faces.Add(f1)

	name := defn.LocalhostName.Append("nfd", "status")
	interest := &defn.FwInterest{NameV: name}
	interest.NonceV.Set(1)
	fw.OnIncomingInterest(f1.ID(), interest)

	require.Equal(t, 0, fw.pit.Size(), "a scope-violating interest must never reach the pit")
}
