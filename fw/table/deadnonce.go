package table

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	enc "github.com/ndnfw/planes/std/encoding"
)

// DeadNonceList remembers (name, nonce) pairs seen on Interests whose PIT
// entries have since been deleted, for long enough that a retransmission
// arriving after the entry expired is still recognized as a loop instead
// of being forwarded all over again.
type DeadNonceList struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uint64]time.Time
}

// NewDeadNonceList constructs a list that forgets entries after ttl.
func NewDeadNonceList(ttl time.Duration) *DeadNonceList {
	return &DeadNonceList{ttl: ttl, entries: make(map[uint64]time.Time)}
}

func deadNonceKey(name enc.Name, nonce uint32) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(name.String())
	var nb [4]byte
	binary.BigEndian.PutUint32(nb[:], nonce)
	_, _ = h.Write(nb[:])
	return h.Sum64()
}

// Add records that (name, nonce) was seen, so Has returns true for it
// until the TTL elapses.
func (d *DeadNonceList) Add(name enc.Name, nonce uint32, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[deadNonceKey(name, nonce)] = now.Add(d.ttl)
}

// Has reports whether (name, nonce) is currently remembered. Expired
// entries are evicted lazily on lookup rather than on a timer, since a
// stale lookup is harmless and a background sweep would need its own
// reactor timer for no benefit.
func (d *DeadNonceList) Has(name enc.Name, nonce uint32, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := deadNonceKey(name, nonce)
	expiry, ok := d.entries[key]
	if !ok {
		return false
	}
	if now.After(expiry) {
		delete(d.entries, key)
		return false
	}
	return true
}

// Size reports the number of entries currently tracked, including any not
// yet lazily evicted past their TTL.
func (d *DeadNonceList) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
