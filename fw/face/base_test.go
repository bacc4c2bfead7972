package face

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	enc "github.com/ndnfw/planes/std/encoding"
)

type recordingSink struct {
	mu        sync.Mutex
	interests []defn.FaceId
	data      []defn.FaceId
}

func (s *recordingSink) OnIncomingInterest(inFace defn.FaceId, interest *defn.FwInterest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests = append(s.interests, inFace)
}

func (s *recordingSink) OnIncomingData(inFace defn.FaceId, data *defn.FwData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, inFace)
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.interests), len(s.data)
}

func TestBasePostInterestDrainsOnReactorWake(t *testing.T) {
	sched := core.NewScheduler()
	sink := &recordingSink{}
	b := NewBase(defn.FaceId(7), false, false, false, sched, sink)

	go sched.Run()
	defer sched.Stop()

	name, _ := enc.NameFromStr("/a")
	b.PostInterest(&defn.FwInterest{NameV: name})

	require.Eventually(t, func() bool {
		in, _ := sink.counts()
		return in == 1
	}, time.Second, time.Millisecond)
}

func TestBasePostDataDrainsOnReactorWake(t *testing.T) {
	sched := core.NewScheduler()
	sink := &recordingSink{}
	b := NewBase(defn.FaceId(3), false, false, false, sched, sink)

	go sched.Run()
	defer sched.Stop()

	name, _ := enc.NameFromStr("/a")
	b.PostData(&defn.FwData{NameV: name})

	require.Eventually(t, func() bool {
		_, d := sink.counts()
		return d == 1
	}, time.Second, time.Millisecond)
}

func TestBaseAccessors(t *testing.T) {
	sched := core.NewScheduler()
	b := NewBase(defn.FaceId(9), true, true, true, sched, &recordingSink{})

	require.Equal(t, defn.FaceId(9), b.ID())
	require.True(t, b.IsLocal())
	require.True(t, b.IsPITless())
	require.True(t, b.IsBridge())
}
