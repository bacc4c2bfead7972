package core

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// NonceSource mints the random nonces Interests are tagged with. The
// default source is backed by crypto/rand; tests substitute a
// deterministic source to make nonce collisions and loop detection
// reproducible.
type NonceSource interface {
	NextNonce() uint32
}

type cryptoNonceSource struct{}

func (cryptoNonceSource) NextNonce() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is unrecoverable; a zero nonce would silently
		// defeat loop suppression, so crash loudly instead.
		panic("core: crypto/rand unavailable: " + err.Error())
	}
	return binary.BigEndian.Uint32(buf[:])
}

var defaultNonceSource NonceSource = cryptoNonceSource{}

var nonceMu sync.Mutex

// NewNonce mints a fresh uniform random uint32 nonce using the
// process-wide NonceSource.
func NewNonce() uint32 {
	nonceMu.Lock()
	src := defaultNonceSource
	nonceMu.Unlock()
	return src.NextNonce()
}

// SetNonceSource overrides the process-wide NonceSource, for tests that
// need deterministic or colliding nonces.
func SetNonceSource(src NonceSource) {
	nonceMu.Lock()
	defer nonceMu.Unlock()
	defaultNonceSource = src
}

// SequentialNonceSource is a deterministic NonceSource for tests: each
// call returns the next integer, beginning with the value passed to
// NewSequentialNonceSource.
type SequentialNonceSource struct {
	mu   sync.Mutex
	next uint32
}

// NewSequentialNonceSource constructs a SequentialNonceSource starting at start.
func NewSequentialNonceSource(start uint32) *SequentialNonceSource {
	return &SequentialNonceSource{next: start}
}

func (s *SequentialNonceSource) NextNonce() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n
}
