// Package cmd wires a loaded core.Config into a running set of forwarding
// planes: one core.Scheduler per daemon, one forwarder and face set per
// configured plane, and one mgmt.Server per plane bound to the shared
// admin listener.
package cmd

import (
	"fmt"
	"net/http"

	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
	"github.com/ndnfw/planes/fw/face"
	fwd "github.com/ndnfw/planes/fw/fw"
	"github.com/ndnfw/planes/fw/mgmt"
	"github.com/ndnfw/planes/fw/table"
	enc "github.com/ndnfw/planes/std/encoding"
)

// plane bundles the running state for one configured forwarding plane:
// its forwarder, face table, and whatever listeners were brought up for
// it.
type plane struct {
	name      string
	sink      face.InboundSink
	faces     *face.Table
	tcpListen []*face.TCPListener
}

// Daemon is one running planesd process: a reactor goroutine, N
// independently forwarding planes, and an admin HTTP mux serving every
// plane's mgmt.Server under /<name>/...
type Daemon struct {
	config *core.Config
	sched  *core.Scheduler
	planes []*plane
	mgmt   *http.Server
}

func (d *Daemon) String() string { return "planesd" }

// NewDaemon builds every configured plane's tables, strategies and faces,
// but does not yet start accepting connections or serving mgmt requests;
// call Start for that.
func NewDaemon(config *core.Config) (*Daemon, error) {
	core.Log.SetLevel(config.ParseLevel())

	d := &Daemon{
		config: config,
		sched:  core.NewScheduler(),
	}

	mux := http.NewServeMux()
	for i, pc := range config.Planes {
		name := pc.Plane
		if name == "" {
			name = fmt.Sprintf("plane-%d", i)
		}

		p, controller, err := d.buildPlane(name, pc)
		if err != nil {
			return nil, fmt.Errorf("cmd: building plane %q: %w", name, err)
		}
		d.planes = append(d.planes, p)

		prefix := "/" + name
		mux.Handle(prefix+"/", http.StripPrefix(prefix, mgmt.NewServer(controller)))
	}

	d.mgmt = &http.Server{Addr: config.Mgmt.Listen, Handler: mux}
	return d, nil
}

// buildPlane constructs one plane's tables/forwarder/faces from its
// config section. The returned mgmt.PlaneController is the same
// forwarder value as p.sink, just viewed through the narrower interface
// the admin surface needs.
func (d *Daemon) buildPlane(name string, pc core.PlaneConfig) (*plane, mgmt.PlaneController, error) {
	faces := face.NewTable()

	cs, err := buildCs(pc.Cs)
	if err != nil {
		return nil, nil, err
	}

	var controller mgmt.PlaneController
	var sink face.InboundSink

	switch pc.Plane {
	case "", "classical":
		f := fwd.NewForwarder(core.Id(len(d.planes)+1), faces, cs, d.sched, pc.DeadNonceTTL, core.NoopDelayCallbacks())
		installDefaultStrategy(f, pc.DefaultStrategy)
		sink, controller = f, f
	case "pitless":
		f := fwd.NewPITlessForwarder(core.Id(len(d.planes)+1), faces, cs, core.NoopDelayCallbacks())
		installDefaultStrategy(f, pc.DefaultStrategy)
		sink, controller = f, f
	case "bridge":
		supportingName, err := enc.NameFromStr(pc.SupportingName)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid supporting_name: %w", err)
		}
		f := fwd.NewBridgeForwarder(core.Id(len(d.planes)+1), faces, cs, d.sched, pc.DeadNonceTTL, supportingName, pc.FallbackStrategy, core.NoopDelayCallbacks())
		installDefaultStrategy(f, pc.DefaultStrategy)
		sink, controller = f, f
	default:
		return nil, nil, fmt.Errorf("unknown plane kind %q", pc.Plane)
	}

	p := &plane{name: name, sink: sink, faces: faces}

	nextFaceID := uint64(1)
	for _, fc := range pc.Faces {
		id := defn.FaceId(nextFaceID)
		nextFaceID++

		switch fc.Kind {
		case "tcp":
			if fc.Listen != "" {
				ln, err := face.ListenTCP(fc.Listen, id, fc.PITless, fc.Bridge, d.sched, sink)
				if err != nil {
					return nil, nil, fmt.Errorf("listening tcp %s: %w", fc.Listen, err)
				}
				p.tcpListen = append(p.tcpListen, ln)
				go ln.Accept(func(f *face.TCPFace) { faces.Add(f) })
			} else if fc.Connect != "" {
				f, err := face.DialTCP(fc.Connect, id, fc.Local, fc.PITless, fc.Bridge, d.sched, sink)
				if err != nil {
					return nil, nil, fmt.Errorf("dialing tcp %s: %w", fc.Connect, err)
				}
				faces.Add(f)
			}
		case "websocket":
			if fc.Connect != "" {
				f, err := face.DialWS(fc.Connect, id, fc.Local, fc.PITless, fc.Bridge, d.sched, sink)
				if err != nil {
					return nil, nil, fmt.Errorf("dialing websocket %s: %w", fc.Connect, err)
				}
				faces.Add(f)
			}
			// A websocket entry with only Listen set is ignored: Daemon
			// opens no websocket listener and mounts no face.WSUpgrader.
		case "mem":
			faces.Add(face.NewMemFace(id, fc.Local, fc.PITless, fc.Bridge))
		}
	}

	return p, controller, nil
}

func buildCs(cc core.CsConfig) (*table.Cs, error) {
	capacity := cc.Capacity
	if capacity <= 0 {
		capacity = 4096
	}
	switch cc.Backend {
	case "", "memory":
		return table.NewCs(table.NewMemoryCsStore(), capacity), nil
	case "badger":
		store, err := table.NewBadgerCsStore(cc.Path)
		if err != nil {
			return nil, fmt.Errorf("opening badger CS store at %s: %w", cc.Path, err)
		}
		return table.NewCs(store, capacity), nil
	default:
		return nil, fmt.Errorf("unknown content_store backend %q", cc.Backend)
	}
}

// installDefaultStrategy installs name as the root (catch-all) entry of a
// plane's strategy-choice table, if the plane's HasStrategy accepts it.
// Unrecognized or empty names are left at whatever the constructor
// already defaulted to.
func installDefaultStrategy(plane interface {
	StrategyChoice() *table.StrategyChoice
	HasStrategy(string) bool
}, name string) {
	if name == "" || !plane.HasStrategy(name) {
		return
	}
	plane.StrategyChoice().Install(enc.Name{}, name)
}

// Start brings up every plane's listeners (already accepting in their own
// goroutines from buildPlane) and the admin HTTP server, then runs the
// reactor loop. Start blocks until Stop is called from another goroutine.
func (d *Daemon) Start() {
	go func() {
		if err := d.mgmt.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			core.Log.Error(d, "mgmt server exited", "err", err)
		}
	}()
	core.Log.Info(d, "planesd started", "planes", len(d.planes), "mgmt", d.config.Mgmt.Listen)
	d.sched.Run()
}

// Stop shuts down the admin server and the reactor loop.
func (d *Daemon) Stop() {
	d.mgmt.Close()
	for _, p := range d.planes {
		for _, ln := range p.tcpListen {
			ln.Close()
		}
	}
	d.sched.Stop()
}
