package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/std/types/optional"
)

func TestPitFindOrInsertReusesExistingEntry(t *testing.T) {
	pit := NewPit()
	name, _ := enc.NameFromStr("/a/b")

	e1, found1 := pit.FindOrInsert(name, false, false)
	require.False(t, found1)
	e2, found2 := pit.FindOrInsert(name, false, false)
	require.True(t, found2)
	require.Same(t, e1, e2)

	// different selectors are a distinct entry
	e3, found3 := pit.FindOrInsert(name, true, false)
	require.False(t, found3)
	require.NotSame(t, e1, e3)
}

func TestPitInsertInRecordTracksPriorNonce(t *testing.T) {
	name, _ := enc.NameFromStr("/a")
	entry := newPitEntry(name, false, false)
	interest := &defn.FwInterest{NameV: name, NonceV: optional.Some(uint32(1))}
	now := time.Now()

	rec, existed, _ := entry.InsertInRecord(interest, 7, now, time.Second)
	require.False(t, existed)
	require.Equal(t, defn.FaceId(7), rec.Face)
	require.Equal(t, uint32(1), rec.LatestNonce)

	interest.NonceV.Set(2)
	rec2, existed2, prevNonce := entry.InsertInRecord(interest, 7, now, time.Second)
	require.True(t, existed2)
	require.Equal(t, uint32(1), prevNonce)
	require.Equal(t, uint32(2), rec2.LatestNonce)
	require.Len(t, entry.InRecords, 1)
}

func TestPitFindNonceDetectsLoop(t *testing.T) {
	name, _ := enc.NameFromStr("/a")
	entry := newPitEntry(name, false, false)
	interest := &defn.FwInterest{NameV: name, NonceV: optional.Some(uint32(42))}
	now := time.Now()

	entry.InsertInRecord(interest, 1, now, time.Second)
	require.True(t, entry.FindNonce(42, 2))
	require.False(t, entry.FindNonce(42, 1))
	require.False(t, entry.FindNonce(99, 2))
}

func TestPitFindAllDataMatchesRespectsCanBePrefix(t *testing.T) {
	pit := NewPit()
	prefix, _ := enc.NameFromStr("/a")
	exact, _ := enc.NameFromStr("/x/y")
	full, _ := enc.NameFromStr("/a/b/c")

	prefixEntry, _ := pit.FindOrInsert(prefix, true, false)
	exactEntry, _ := pit.FindOrInsert(exact, false, false)

	matches := pit.FindAllDataMatches(full)
	require.Contains(t, matches, prefixEntry)
	require.NotContains(t, matches, exactEntry)

	exactMatches := pit.FindAllDataMatches(exact)
	require.Contains(t, exactMatches, exactEntry)
}

func TestPitEraseRemovesEntry(t *testing.T) {
	pit := NewPit()
	name, _ := enc.NameFromStr("/a")
	entry, _ := pit.FindOrInsert(name, false, false)
	require.Equal(t, 1, pit.Size())

	pit.Erase(entry)
	require.Equal(t, 0, pit.Size())
	_, found := pit.FindOrInsert(name, false, false)
	require.False(t, found)
}
