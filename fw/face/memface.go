package face

import (
	"sync"

	"github.com/ndnfw/planes/fw/defn"
)

// MemFace is an in-process Face used by tests and by faces wiring two
// forwarders together in-process. It records everything sent to it rather
// than transmitting over any transport.
type MemFace struct {
	id                            defn.FaceId
	local, pitless, bridgePlaneOk bool

	mu            sync.Mutex
	sentInterests []*defn.FwInterest
	sentData      []*defn.FwData
	down          bool
}

// NewMemFace constructs a MemFace with the given id and plane flags.
func NewMemFace(id defn.FaceId, local, pitless, bridge bool) *MemFace {
	return &MemFace{id: id, local: local, pitless: pitless, bridgePlaneOk: bridge}
}

func (f *MemFace) ID() defn.FaceId { return f.id }
func (f *MemFace) IsLocal() bool   { return f.local }
func (f *MemFace) IsPITless() bool { return f.pitless }
func (f *MemFace) IsBridge() bool  { return f.bridgePlaneOk }

// SendInterest records interest as sent on this face.
func (f *MemFace) SendInterest(interest *defn.FwInterest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return defn.ErrFaceDown
	}
	f.sentInterests = append(f.sentInterests, interest)
	return nil
}

// SendData records data as sent on this face.
func (f *MemFace) SendData(data *defn.FwData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return defn.ErrFaceDown
	}
	f.sentData = append(f.sentData, data)
	return nil
}

// SentInterests returns a snapshot of every Interest sent on this face.
func (f *MemFace) SentInterests() []*defn.FwInterest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*defn.FwInterest(nil), f.sentInterests...)
}

// SentData returns a snapshot of every Data sent on this face.
func (f *MemFace) SentData() []*defn.FwData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*defn.FwData(nil), f.sentData...)
}

// Down marks the face as unable to send, simulating removal races where a
// stale FaceId is still held by a pipeline variable.
func (f *MemFace) Down() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = true
}
