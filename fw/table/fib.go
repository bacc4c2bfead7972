// Package table holds the four forwarding tables every plane reads and
// mutates on the reactor goroutine: the FIB, the PIT, the Content Store
// and the Dead-Nonce list, plus the Strategy-Choice table that maps a
// name prefix to the strategy installed over it.
package table

import (
	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/fw/defn"
)

// FibNextHopEntry records one face a FIB entry forwards to, and the
// administrative cost a strategy may use to rank it against siblings.
type FibNextHopEntry struct {
	Nexthop defn.FaceId
	Cost    int
}

// fibEntry is one node of the FIB's name trie. Only nodes with a non-empty
// nexthops list are "real" entries; intermediate nodes exist
// purely to give their children a place to attach.
type fibEntry struct {
	component enc.Component
	name      enc.Name
	nexthops  []*FibNextHopEntry
	children  map[enc.Component]*fibEntry
}

func newFibEntry(name enc.Name, component enc.Component) *fibEntry {
	return &fibEntry{
		component: component,
		name:      name,
		children:  make(map[enc.Component]*fibEntry),
	}
}

// Name returns the prefix this entry was registered under.
func (e *fibEntry) Name() enc.Name { return e.name }

// GetNextHops returns the registered next hops for this entry.
func (e *fibEntry) GetNextHops() []*FibNextHopEntry { return e.nexthops }

// FibEntry is the public, read-only view of a matched FIB entry.
type FibEntry = fibEntry

// Fib is the longest-prefix-match forwarding table. It is a prefix trie
// keyed one Name component at a time, mirroring the NDN name-trie
// structure the FIB and PIT both use.
type Fib struct {
	root *fibEntry
}

// NewFib constructs an empty FIB.
func NewFib() *Fib {
	return &Fib{root: newFibEntry(enc.Name{}, "")}
}

// lookupOrInsert walks/creates trie nodes down to name, returning the
// terminal node.
func (f *Fib) lookupOrInsert(name enc.Name) *fibEntry {
	node := f.root
	for i, c := range name {
		child, ok := node.children[c]
		if !ok {
			child = newFibEntry(name[:i+1].Clone(), c)
			node.children[c] = child
		}
		node = child
	}
	return node
}

// AddOrUpdateNextHop inserts or updates the next hop for face on the entry
// at name, returning the resulting entry.
func (f *Fib) AddOrUpdateNextHop(name enc.Name, face defn.FaceId, cost int) *FibEntry {
	entry := f.lookupOrInsert(name)
	for _, nh := range entry.nexthops {
		if nh.Nexthop == face {
			nh.Cost = cost
			return entry
		}
	}
	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: face, Cost: cost})
	return entry
}

// RemoveNextHop drops face from the entry at name, if present. Returns
// true if the entry (now possibly empty) still exists in the trie.
func (f *Fib) RemoveNextHop(name enc.Name, face defn.FaceId) bool {
	entry := f.find(name)
	if entry == nil {
		return false
	}
	for i, nh := range entry.nexthops {
		if nh.Nexthop == face {
			entry.nexthops = append(entry.nexthops[:i], entry.nexthops[i+1:]...)
			break
		}
	}
	return true
}

// RemoveFace drops face from every FIB entry, used when a face goes down.
func (f *Fib) RemoveFace(face defn.FaceId) {
	var walk func(*fibEntry)
	walk = func(e *fibEntry) {
		for i, nh := range e.nexthops {
			if nh.Nexthop == face {
				e.nexthops = append(e.nexthops[:i], e.nexthops[i+1:]...)
				break
			}
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(f.root)
}

func (f *Fib) find(name enc.Name) *fibEntry {
	node := f.root
	for _, c := range name {
		child, ok := node.children[c]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// FindLongestPrefixMatch returns the deepest entry with at least one next
// hop that is a prefix of name, or nil if none exists.
func (f *Fib) FindLongestPrefixMatch(name enc.Name) *FibEntry {
	node := f.root
	var best *fibEntry
	if len(node.nexthops) > 0 {
		best = node
	}
	for _, c := range name {
		child, ok := node.children[c]
		if !ok {
			break
		}
		node = child
		if len(node.nexthops) > 0 {
			best = node
		}
	}
	return best
}

// FindExactMatch returns the entry registered at exactly name, or nil.
func (f *Fib) FindExactMatch(name enc.Name) *FibEntry {
	entry := f.find(name)
	if entry == nil || len(entry.nexthops) == 0 {
		return nil
	}
	return entry
}

// All returns every entry in the trie that has at least one next hop, for
// the admin "list" dataset.
func (f *Fib) All() []*FibEntry {
	var entries []*FibEntry
	var walk func(*fibEntry)
	walk = func(e *fibEntry) {
		if len(e.nexthops) > 0 {
			entries = append(entries, e)
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(f.root)
	return entries
}
