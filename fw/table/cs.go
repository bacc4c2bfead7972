package table

import (
	"container/list"
	"sync"
	"time"

	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/fw/defn"
)

// CsEntry is one cached Data packet.
type CsEntry struct {
	Data      *defn.FwData
	StaleTime time.Time
}

// Fresh reports whether the entry is still usable to satisfy a
// MustBeFresh Interest at now.
func (e *CsEntry) Fresh(now time.Time) bool {
	return now.Before(e.StaleTime)
}

// CsStore is the pluggable persistence layer behind the Content Store.
// MemoryCsStore and BadgerCsStore are the two concrete implementations;
// both are safe for concurrent use.
type CsStore interface {
	Get(name enc.Name, prefix bool) (*CsEntry, bool)
	Put(name enc.Name, entry *CsEntry)
	Remove(name enc.Name)
	Len() int
	EvictOldest(n int)
}

// Cs is the Content Store: a name-indexed cache of Data packets consulted
// before an Interest is forwarded, and populated by every Data that passes
// through a forwarder that admits caching.
type Cs struct {
	store    CsStore
	capacity int
}

// NewCs constructs a Content Store over the given backend store.
func NewCs(store CsStore, capacity int) *Cs {
	return &Cs{store: store, capacity: capacity}
}

// Insert admits data into the cache, evicting the oldest entry first if at
// capacity. freshness is the Data's FreshnessPeriod; a zero freshness
// means the entry is immediately stale and can only satisfy lookups
// without MustBeFresh.
func (cs *Cs) Insert(data *defn.FwData, now time.Time) {
	if cs.capacity <= 0 {
		return
	}
	freshness, _ := data.FreshnessV.Get()
	entry := &CsEntry{
		Data:      data.StripTransportTags(),
		StaleTime: now.Add(freshness),
	}
	if cs.store.Len() >= cs.capacity {
		cs.store.EvictOldest(cs.store.Len() - cs.capacity + 1)
	}
	cs.store.Put(data.NameV, entry)
}

// FindCallback is invoked with the matching entry (nil if no match) once a
// Find lookup completes. The Content Store is the only component in the
// forwarding core allowed to suspend a pipeline: every other table access
// is synchronous.
type FindCallback func(entry *CsEntry)

// Find looks up the best entry satisfying an Interest's name/selectors.
// Both backends answer synchronously: cb is invoked on the calling
// goroutine before Find returns.
func (cs *Cs) Find(interest *defn.FwInterest, canBePrefix, mustBeFresh bool, now time.Time, cb FindCallback) {
	entry, ok := cs.store.Get(interest.NameV, canBePrefix)
	if !ok || (mustBeFresh && !entry.Fresh(now)) {
		cb(nil)
		return
	}
	cb(entry)
}

// Remove evicts any cached entry at exactly name.
func (cs *Cs) Remove(name enc.Name) {
	cs.store.Remove(name)
}

// Len reports the number of cached entries.
func (cs *Cs) Len() int {
	return cs.store.Len()
}

// MemoryCsStore is an in-process, LRU-ish CsStore: eviction drops the
// least-recently-inserted entries first.
type MemoryCsStore struct {
	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List
}

type memCsItem struct {
	name  enc.Name
	entry *CsEntry
}

// NewMemoryCsStore constructs an empty in-memory Content Store backend.
func NewMemoryCsStore() *MemoryCsStore {
	return &MemoryCsStore{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (s *MemoryCsStore) Get(name enc.Name, prefix bool) (*CsEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !prefix {
		if el, ok := s.entries[name.String()]; ok {
			return el.Value.(*memCsItem).entry, true
		}
		return nil, false
	}

	// Prefix match: among cached names that name is a prefix of (or equal
	// to), the longest wins. The memory backend is small enough that a
	// linear scan is fine; the badger backend uses a reverse-seek iterator.
	var best *CsEntry
	bestLen := -1
	for _, el := range s.entries {
		item := el.Value.(*memCsItem)
		if name.IsPrefix(item.name) && len(item.name) > bestLen {
			best = item.entry
			bestLen = len(item.name)
		}
	}
	return best, best != nil
}

func (s *MemoryCsStore) Put(name enc.Name, entry *CsEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := name.String()
	if el, ok := s.entries[key]; ok {
		s.order.MoveToBack(el)
		el.Value.(*memCsItem).entry = entry
		return
	}
	el := s.order.PushBack(&memCsItem{name: name.Clone(), entry: entry})
	s.entries[key] = el
}

func (s *MemoryCsStore) Remove(name enc.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := name.String()
	if el, ok := s.entries[key]; ok {
		s.order.Remove(el)
		delete(s.entries, key)
	}
}

func (s *MemoryCsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

func (s *MemoryCsStore) EvictOldest(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		front := s.order.Front()
		if front == nil {
			return
		}
		s.order.Remove(front)
		delete(s.entries, front.Value.(*memCsItem).name.String())
	}
}
