package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	stdlog "github.com/ndnfw/planes/std/log"
)

// FaceConfig describes one listening or connecting face to bring up at
// startup.
type FaceConfig struct {
	// Kind selects the transport: "tcp", "websocket" or "mem".
	Kind string `yaml:"kind"`
	// Listen is a host:port to accept connections on. Mutually exclusive
	// with Connect.
	Listen string `yaml:"listen,omitempty"`
	// Connect is a host:port to dial out to. Mutually exclusive with Listen.
	Connect string `yaml:"connect,omitempty"`
	Local   bool   `yaml:"local"`
	PITless bool   `yaml:"pitless"`
	Bridge  bool   `yaml:"bridge"`
}

// CsConfig configures one forwarder's Content Store.
type CsConfig struct {
	// Backend selects the storage layer: "memory" or "badger".
	Backend string `yaml:"backend"`
	// Capacity bounds the number of entries kept, for either backend; the
	// badger backend evicts in key order rather than insertion order.
	Capacity int `yaml:"capacity"`
	// Path is the on-disk directory for the badger backend.
	Path string `yaml:"path,omitempty"`
}

// PlaneConfig configures one forwarder instance: its plane, faces, default
// strategy and table sizing.
type PlaneConfig struct {
	// Plane selects "classical", "pitless" or "bridge".
	Plane string `yaml:"plane"`
	// SupportingName is the name a bridge plane stamps onto outgoing
	// Interests as they cross into the PIT-less region. Ignored outside
	// the bridge plane.
	SupportingName string `yaml:"supporting_name,omitempty"`
	// FallbackStrategy names the PIT-less strategy a bridge plane
	// dispatches every Interest Content-Store miss into.
	FallbackStrategy string       `yaml:"fallback_strategy,omitempty"`
	DefaultStrategy  string       `yaml:"default_strategy"`
	Faces            []FaceConfig `yaml:"faces"`
	Cs               CsConfig     `yaml:"content_store"`
	DeadNonceTTL     time.Duration `yaml:"dead_nonce_ttl"`
}

// Config is the top-level planesd configuration document.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Mgmt      MgmtConfig      `yaml:"mgmt"`
	Planes    []PlaneConfig   `yaml:"planes"`
	Profiling ProfilingConfig `yaml:"profiling,omitempty"`
}

// MgmtConfig configures the admin HTTP listener.
type MgmtConfig struct {
	Listen string `yaml:"listen"`
}

// ProfilingConfig names the output files cmd.Profiler writes to, bound
// to the `--cpu-profile`/`--mem-profile`/`--block-profile` CLI flags.
type ProfilingConfig struct {
	CpuProfile   string `yaml:"cpu_profile,omitempty"`
	MemProfile   string `yaml:"mem_profile,omitempty"`
	BlockProfile string `yaml:"block_profile,omitempty"`
}

// DefaultConfig returns a single-plane classical-forwarder configuration
// suitable as a starting point.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Mgmt:     MgmtConfig{Listen: "127.0.0.1:9696"},
		Planes: []PlaneConfig{
			{
				Plane:           "classical",
				DefaultStrategy: "best-route-v2",
				Cs:              CsConfig{Backend: "memory", Capacity: 4096},
				DeadNonceTTL:    6 * time.Second,
			},
		},
	}
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("core: reading config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	cfg.Planes = nil
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("core: parsing config %s: %w", path, err)
	}
	if len(cfg.Planes) == 0 {
		cfg.Planes = DefaultConfig().Planes
	}
	return cfg, nil
}

// ParseLevel maps the configured log_level string to a std/log.Level,
// defaulting to Info on an empty or unrecognized string.
func (c *Config) ParseLevel() stdlog.Level {
	lvl, err := stdlog.ParseLevel(strings.ToUpper(c.LogLevel))
	if err != nil {
		Log.Warn(Namef("config"), "unrecognized log_level, defaulting to info", "value", c.LogLevel)
		return stdlog.LevelInfo
	}
	return lvl
}
