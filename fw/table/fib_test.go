package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	enc "github.com/ndnfw/planes/std/encoding"
)

func TestFibLongestPrefixMatch(t *testing.T) {
	fib := NewFib()
	a, _ := enc.NameFromStr("/a")
	ab, _ := enc.NameFromStr("/a/b")
	abc, _ := enc.NameFromStr("/a/b/c")

	fib.AddOrUpdateNextHop(a, 1, 10)
	fib.AddOrUpdateNextHop(ab, 2, 5)

	match := fib.FindLongestPrefixMatch(abc)
	require.NotNil(t, match)
	require.True(t, match.Name().Equal(ab))
	require.Len(t, match.GetNextHops(), 1)
	require.Equal(t, 2, int(match.GetNextHops()[0].Nexthop))
}

func TestFibAddOrUpdateNextHopUpdatesCost(t *testing.T) {
	fib := NewFib()
	name, _ := enc.NameFromStr("/a")
	fib.AddOrUpdateNextHop(name, 1, 10)
	fib.AddOrUpdateNextHop(name, 1, 99)

	entry := fib.FindExactMatch(name)
	require.Len(t, entry.GetNextHops(), 1)
	require.Equal(t, 99, entry.GetNextHops()[0].Cost)
}

func TestFibRemoveNextHopAndRemoveFace(t *testing.T) {
	fib := NewFib()
	name, _ := enc.NameFromStr("/a")
	fib.AddOrUpdateNextHop(name, 1, 10)
	fib.AddOrUpdateNextHop(name, 2, 20)

	require.True(t, fib.RemoveNextHop(name, 1))
	entry := fib.FindExactMatch(name)
	require.Len(t, entry.GetNextHops(), 1)

	fib.RemoveFace(2)
	require.Nil(t, fib.FindExactMatch(name))
}

func TestFibFindLongestPrefixMatchNoMatch(t *testing.T) {
	fib := NewFib()
	name, _ := enc.NameFromStr("/x/y")
	require.Nil(t, fib.FindLongestPrefixMatch(name))
}
