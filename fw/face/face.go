// Package face defines the Face contract the forwarding core consumes and
// the Table that indexes live faces by id. Concrete transports (memface,
// tcpface, wsface) implement Face but are themselves collaborators, not
// part of the forwarding core: nothing here prescribes how a face actually
// performs transport.
package face

import (
	"sync"

	"github.com/ndnfw/planes/fw/defn"
)

// Face is the contract the forwarding core consumes from a transport. A
// Face's plane flags (IsLocal/IsPITless/IsBridge) are fixed at construction
// time by whatever wires the face up — they describe how the core should
// treat the face, not a property of the network link itself.
type Face interface {
	ID() defn.FaceId
	SendInterest(interest *defn.FwInterest) error
	SendData(data *defn.FwData) error
	IsLocal() bool
	IsPITless() bool
	IsBridge() bool
}

// Table indexes faces by id. It is owned by exactly one forwarder; its
// methods are guarded by a mutex, so a listener's accept goroutine may
// add faces while the reactor reads. Readers normally hold only a
// FaceId and must re-resolve through Get before every use since faces may
// be removed at any event boundary.
type Table struct {
	mu    sync.RWMutex
	faces map[defn.FaceId]Face
}

// NewTable constructs an empty face table.
func NewTable() *Table {
	return &Table{faces: make(map[defn.FaceId]Face)}
}

// Add registers face under its own id, overwriting any previous
// registration at that id.
func (t *Table) Add(f Face) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.faces[f.ID()] = f
}

// Remove drops the face with the given id, if any. Held FaceId values
// referring to a removed face simply resolve to nil on the next Get: a
// stale reference is detectable, never dereferenced.
func (t *Table) Remove(id defn.FaceId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.faces, id)
}

// Get resolves id to its live Face, or nil if the id is unknown or the
// face has since been removed.
func (t *Table) Get(id defn.FaceId) Face {
	if id == defn.InvalidFaceId {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.faces[id]
}

// Len reports the number of registered faces.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.faces)
}
