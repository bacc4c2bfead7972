package fw

// Counters tracks the packet counters every forwarder plane exposes.
// Mutated only from the reactor goroutine, same as every other table in
// this package, so plain fields are enough.
type Counters struct {
	NInInterests uint64
	NInDatas     uint64
}
