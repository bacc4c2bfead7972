package core

import (
	"time"

	pq "github.com/ndnfw/planes/std/types/priority_queue"
)

// TimerId is a cancellable handle returned by Scheduler.Schedule.
type TimerId struct {
	item *pq.Item[func(), int64]
}

// Scheduler is the single-threaded, cooperative reactor every pipeline
// call in the forwarding core runs on: all table mutation happens on its
// goroutine, and the only permitted suspension point inside one pipeline
// invocation is a Content Store lookup whose continuation is itself
// scheduled back onto this same loop.
type Scheduler struct {
	timers       pq.Queue[func(), int64]
	wake         chan struct{}
	stop         chan struct{}
	wakeHandlers []func()
}

// NewScheduler constructs a Scheduler that has not yet been started.
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: pq.New[func(), int64](),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
}

// Nudge wakes the reactor loop without arming a timer. A face's read
// goroutine calls this after pushing an inbound packet onto its own queue,
// so Run's select returns and the registered wake handlers get a chance to
// drain it.
func (s *Scheduler) Nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// OnWake registers fn to run every time the reactor loop wakes up for any
// reason. Faces use this to install the callback that drains their inbound
// queue into a forwarder's OnIncomingInterest/OnIncomingData.
func (s *Scheduler) OnWake(fn func()) {
	s.wakeHandlers = append(s.wakeHandlers, fn)
}

func (s *Scheduler) runWakeHandlers() {
	for _, fn := range s.wakeHandlers {
		fn()
	}
}

// Schedule arms cb to run on the reactor goroutine after d elapses.
// Returns a handle that Cancel can use to no-op the callback if it has not
// fired yet.
func (s *Scheduler) Schedule(d time.Duration, cb func()) TimerId {
	item := s.timers.Push(cb, time.Now().Add(d).UnixNano())
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return TimerId{item: item}
}

// Cancel disarms a timer. A no-op if the timer already fired or was
// already cancelled. Cancelling a timer whose callback is already running
// does not stop that callback; the callback itself must check liveness of
// whatever it closed over.
func (s *Scheduler) Cancel(id TimerId) {
	if id.item == nil {
		return
	}
	s.timers.Remove(id.item)
}

// Run drives the reactor loop until Stop is called. Intended to be run on
// its own goroutine by a daemon entry point; unit tests instead call
// RunUntilIdle or fire timers directly via Schedule+manual time control.
func (s *Scheduler) Run() {
	for {
		var timer <-chan time.Time
		if s.timers.Len() > 0 {
			d := time.Until(time.Unix(0, s.timers.PeekPriority()))
			if d < 0 {
				d = 0
			}
			t := time.NewTimer(d)
			defer t.Stop()
			timer = t.C
		}

		select {
		case <-s.stop:
			return
		case <-s.wake:
			s.runWakeHandlers()
			s.fireExpired()
		case <-timer:
			s.fireExpired()
		}
	}
}

// fireExpired pops and runs every timer whose deadline has passed.
func (s *Scheduler) fireExpired() {
	now := time.Now().UnixNano()
	for s.timers.Len() > 0 && s.timers.PeekPriority() <= now {
		cb := s.timers.Pop()
		cb()
	}
}

// RunUntilIdle runs every registered wake handler once and fires every
// timer currently due, without blocking. Useful in tests that want pending
// face input and timer callbacks to run synchronously.
func (s *Scheduler) RunUntilIdle() {
	s.runWakeHandlers()
	s.fireExpired()
}

// Stop halts a running reactor loop.
func (s *Scheduler) Stop() {
	close(s.stop)
}
