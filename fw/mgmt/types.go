// Package mgmt is the admin surface the forwarding daemon exposes over
// plain HTTP: add/remove FIB next hops, install/inspect strategy-choice
// entries, and list a plane's current state. The NDN wire management
// protocol itself is out of scope here, but the control-plane operations
// it would expose are kept as a small Go/HTTP API so something external
// can still drive a running plane.
package mgmt

// AddRouteRequest adds or updates a FIB next hop. Decoded from an
// HTTP request's query parameters via github.com/gorilla/schema instead
// of an NDN ControlParameters TLV.
type AddRouteRequest struct {
	Name   string `schema:"name,required"`
	FaceId uint64 `schema:"faceid,required"`
	Cost   int    `schema:"cost"`
}

// RemoveRouteRequest drops a FIB next hop.
type RemoveRouteRequest struct {
	Name   string `schema:"name,required"`
	FaceId uint64 `schema:"faceid,required"`
}

// SetStrategyRequest installs a strategy over a name prefix.
type SetStrategyRequest struct {
	Name     string `schema:"name,required"`
	Strategy string `schema:"strategy,required"`
}

// UnsetStrategyRequest removes an explicit strategy-choice registration.
type UnsetStrategyRequest struct {
	Name string `schema:"name,required"`
}

// SetFallbackRequest retunes a bridge forwarder's Interest-miss fallback
// strategy without restarting it.
type SetFallbackRequest struct {
	Strategy string `schema:"strategy,required"`
}

// NextHopView is one FIB next hop in a list response.
type NextHopView struct {
	FaceId uint64 `json:"faceId"`
	Cost   int    `json:"cost"`
}

// RouteView is one FIB entry in a list response.
type RouteView struct {
	Name     string        `json:"name"`
	NextHops []NextHopView `json:"nextHops"`
}

// StrategyView is one strategy-choice entry in a list response.
type StrategyView struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

// errorResponse is the JSON body written on any handler failure.
type errorResponse struct {
	Error string `json:"error"`
}
