package core

import "time"

// InterestDelayCallback is invoked whenever the forwarding core wants to
// report the latency between an Interest's arrival and the point some
// pipeline decision about it was made. The forwarderID argument lets a
// process hosting multiple forwarder instances (e.g. a classical plane and
// a PIT-less plane wired together through a bridge) attribute samples to
// the right instance without the callback needing a closure per forwarder.
type InterestDelayCallback func(forwarderID int, now time.Time, elapsed time.Duration)

// ContentDelayCallback reports the latency between a Data packet's arrival
// and the end of the forwarder's Data pipeline for it, with the same
// three-argument shape as InterestDelayCallback.
type ContentDelayCallback func(forwarderID int, now time.Time, elapsed time.Duration)

// DelayCallbacks bundles the two callback slots a forwarder instance
// reports latency samples through. A nil field is treated as "not wired"
// and simply skipped.
type DelayCallbacks struct {
	OnInterest InterestDelayCallback
	OnContent  ContentDelayCallback
}

// Id is the per-process-wide identity a forwarder instance passes back to
// its DelayCallbacks so the receiving side can tell multiple installed
// forwarders apart.
type Id int

// noopDelayCallbacks is installed by default so pipelines never need a nil
// check before invoking a delay callback.
var noopDelayCallbacks = DelayCallbacks{
	OnInterest: func(int, time.Time, time.Duration) {},
	OnContent:  func(int, time.Time, time.Duration) {},
}

// NoopDelayCallbacks returns a DelayCallbacks pair that discards every
// sample, for forwarders that don't care about latency instrumentation.
func NoopDelayCallbacks() DelayCallbacks {
	return noopDelayCallbacks
}
