package defn

import "errors"

// ErrFaceDown is returned by a Face's Send methods once the face has been
// removed from its FaceTable.
var ErrFaceDown = errors.New("defn: face is down")

// ErrInvalidFace describes an egress attempted against InvalidFaceId. No
// function in this module returns it: the forwarders log such an egress
// and drop it.
var ErrInvalidFace = errors.New("defn: invalid face id")
