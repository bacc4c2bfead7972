package mgmt

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	"github.com/ndnfw/planes/fw/table"
	enc "github.com/ndnfw/planes/std/encoding"
)

// PlaneController is the subset of a forwarder a Server administers. All
// three forwarding planes (Forwarder, PITlessForwarder, BridgeForwarder)
// satisfy it structurally, regardless of which forwarding thread owns the
// underlying tables.
type PlaneController interface {
	core.Module
	Fib() *table.Fib
	StrategyChoice() *table.StrategyChoice
	Faces() *face.Table
	HasStrategy(name string) bool
}

// bridgeFallbackController is implemented only by BridgeForwarder, and
// backs the extra fallback-strategy endpoint a bridge plane exposes.
type bridgeFallbackController interface {
	FallbackStrategy() string
	SetFallbackStrategy(name string)
	HasPITlessStrategy(name string) bool
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Server is the admin HTTP API bound to one forwarding plane.
type Server struct {
	plane    PlaneController
	bridge   bridgeFallbackController
	mux      *http.ServeMux
}

func (s *Server) String() string { return "mgmt.http" }

// NewServer builds an admin Server for plane. If plane also implements
// bridgeFallbackController (i.e. it's a *fw.BridgeForwarder), the
// fallback-strategy endpoints are registered too.
func NewServer(plane PlaneController) *Server {
	s := &Server{plane: plane, mux: http.NewServeMux()}
	if b, ok := plane.(bridgeFallbackController); ok {
		s.bridge = b
	}

	s.mux.HandleFunc("POST /fib/add-nexthop", s.handleAddRoute)
	s.mux.HandleFunc("POST /fib/remove-nexthop", s.handleRemoveRoute)
	s.mux.HandleFunc("GET /fib/list", s.handleListRoutes)
	s.mux.HandleFunc("POST /strategy-choice/set", s.handleSetStrategy)
	s.mux.HandleFunc("POST /strategy-choice/unset", s.handleUnsetStrategy)
	s.mux.HandleFunc("GET /strategy-choice/list", s.handleListStrategies)
	if s.bridge != nil {
		s.mux.HandleFunc("GET /bridge/fallback", s.handleGetFallback)
		s.mux.HandleFunc("POST /bridge/fallback", s.handleSetFallback)
	}

	return s
}

// ServeHTTP makes Server an http.Handler, ready for http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeQuery(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.Form)
}

// handleAddRoute implements the add-nexthop control operation: validate
// the face exists, then insert or update the FIB next hop.
func (s *Server) handleAddRoute(w http.ResponseWriter, r *http.Request) {
	var req AddRouteRequest
	if err := decodeQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	name, err := enc.NameFromStr(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid name: "+err.Error())
		return
	}

	faceID := defn.FaceId(req.FaceId)
	if s.plane.Faces().Get(faceID) == nil {
		writeError(w, http.StatusGone, "face does not exist")
		return
	}

	s.plane.Fib().AddOrUpdateNextHop(name, faceID, req.Cost)
	core.Log.Info(s.plane, "mgmt added nexthop", "name", name.String(), "faceid", faceID, "cost", req.Cost)
	writeJSON(w, http.StatusOK, RouteView{Name: name.String(), NextHops: []NextHopView{{FaceId: uint64(faceID), Cost: req.Cost}}})
}

// handleRemoveRoute implements the remove-nexthop control operation.
func (s *Server) handleRemoveRoute(w http.ResponseWriter, r *http.Request) {
	var req RemoveRouteRequest
	if err := decodeQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	name, err := enc.NameFromStr(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid name: "+err.Error())
		return
	}

	faceID := defn.FaceId(req.FaceId)
	if !s.plane.Fib().RemoveNextHop(name, faceID) {
		writeError(w, http.StatusNotFound, "no such FIB entry")
		return
	}

	core.Log.Info(s.plane, "mgmt removed nexthop", "name", name.String(), "faceid", faceID)
	writeJSON(w, http.StatusOK, struct{}{})
}

// handleListRoutes implements the FIB list dataset.
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	entries := s.plane.Fib().All()
	views := make([]RouteView, 0, len(entries))
	for _, e := range entries {
		nh := e.GetNextHops()
		hops := make([]NextHopView, len(nh))
		for i, h := range nh {
			hops[i] = NextHopView{FaceId: uint64(h.Nexthop), Cost: h.Cost}
		}
		views = append(views, RouteView{Name: e.Name().String(), NextHops: hops})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleSetStrategy implements the strategy-choice set control operation.
// Strategy versioning is not a concept this module's registry has.
func (s *Server) handleSetStrategy(w http.ResponseWriter, r *http.Request) {
	var req SetStrategyRequest
	if err := decodeQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	name, err := enc.NameFromStr(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid name: "+err.Error())
		return
	}

	if !s.plane.HasStrategy(req.Strategy) {
		writeError(w, http.StatusNotFound, "unknown strategy")
		return
	}

	s.plane.StrategyChoice().Install(name, req.Strategy)
	core.Log.Info(s.plane, "mgmt set strategy", "name", name.String(), "strategy", req.Strategy)
	writeJSON(w, http.StatusOK, StrategyView{Name: name.String(), Strategy: req.Strategy})
}

// handleUnsetStrategy implements the strategy-choice unset control operation.
func (s *Server) handleUnsetStrategy(w http.ResponseWriter, r *http.Request) {
	var req UnsetStrategyRequest
	if err := decodeQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	name, err := enc.NameFromStr(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid name: "+err.Error())
		return
	}

	s.plane.StrategyChoice().Uninstall(name)
	core.Log.Info(s.plane, "mgmt unset strategy", "name", name.String())
	writeJSON(w, http.StatusOK, struct{}{})
}

// handleListStrategies implements the strategy-choice list dataset.
func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	entries := s.plane.StrategyChoice().All()
	views := make([]StrategyView, len(entries))
	for i, e := range entries {
		views[i] = StrategyView{Name: e.Name().String(), Strategy: e.Strategy()}
	}
	writeJSON(w, http.StatusOK, views)
}

// handleGetFallback reports a bridge's current Interest-miss fallback
// strategy name.
func (s *Server) handleGetFallback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StrategyView{Strategy: s.bridge.FallbackStrategy()})
}

// handleSetFallback retunes a bridge's Interest-miss fallback strategy.
func (s *Server) handleSetFallback(w http.ResponseWriter, r *http.Request) {
	var req SetFallbackRequest
	if err := decodeQuery(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}

	if !s.bridge.HasPITlessStrategy(req.Strategy) {
		writeError(w, http.StatusNotFound, "unknown PIT-less strategy")
		return
	}

	s.bridge.SetFallbackStrategy(req.Strategy)
	core.Log.Info(s.plane, "mgmt set bridge fallback", "strategy", req.Strategy)
	writeJSON(w, http.StatusOK, StrategyView{Strategy: req.Strategy})
}
