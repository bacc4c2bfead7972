// Package defn holds the packet value types the forwarding pipelines move
// around: FwInterest, FwData and the FaceId space they are stamped with.
// Field names (NameV, NonceV, ...) mirror the *V-suffixed convention the
// teacher uses for wire-backed fields on its own packet types.
package defn

import (
	"time"

	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/std/types/optional"
)

// FaceId identifies a face. It is meaningful only within one forwarder
// instance's FaceTable.
type FaceId uint64

const (
	// InvalidFaceId is never assigned to a real face.
	InvalidFaceId FaceId = 0
	// FaceIdContentStore tags Data that originated from the Content Store
	// rather than from a real upstream face. It is the largest FaceId, so
	// the small sequential ids given to real faces never reach it.
	FaceIdContentStore FaceId = ^FaceId(0)
)

// LocalhostName is the reserved prefix non-local faces may never reach
// into: a forwarder rejects any Interest arriving on a non-local face
// whose name falls under it.
var LocalhostName = enc.Name{enc.NewGenericComponent("localhost")}

// FwInterest is the Interest value the forwarding core operates on.
type FwInterest struct {
	NameV           enc.Name
	SupportingNameV enc.Name
	NonceV          optional.Optional[uint32]
	InFace          optional.Optional[FaceId]
}

// Name returns the Interest's primary name.
func (i *FwInterest) Name() enc.Name { return i.NameV }

// SupportingName returns the secondary name carried for the PIT-less/bridge
// planes, or nil if unset.
func (i *FwInterest) SupportingName() enc.Name { return i.SupportingNameV }

// Clone returns a shallow copy of the Interest; callers that need to
// rewrite the supporting name (bridge plane) or mint a new nonce must copy
// first so the original is left untouched for any other pending use.
func (i *FwInterest) Clone() *FwInterest {
	cp := *i
	return &cp
}

// FwData is the Data value the forwarding core operates on.
type FwData struct {
	NameV           enc.Name
	SupportingNameV enc.Name
	FreshnessV      optional.Optional[time.Duration]
	Content         []byte
	InFace          optional.Optional[FaceId]
}

// Name returns the Data's primary name.
func (d *FwData) Name() enc.Name { return d.NameV }

// SupportingName returns the secondary name carried for the PIT-less/bridge
// planes, or nil if unset.
func (d *FwData) SupportingName() enc.Name { return d.SupportingNameV }

// StripTransportTags returns a copy of d with nothing but the fields the
// Content Store is allowed to retain: per-packet transport metadata (the
// incoming face, in a real transport also hop-count/congestion tags) must
// not leak into a cached copy that may be replayed to a different face.
func (d *FwData) StripTransportTags() *FwData {
	return &FwData{
		NameV:           d.NameV,
		SupportingNameV: d.SupportingNameV,
		FreshnessV:      d.FreshnessV,
		Content:         d.Content,
	}
}
