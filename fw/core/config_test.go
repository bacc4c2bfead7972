package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	stdlog "github.com/ndnfw/planes/std/log"
)

func TestLoadConfigParsesPlanes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planesd.yaml")
	doc := `
log_level: DEBUG
mgmt:
  listen: 127.0.0.1:9000
planes:
  - plane: bridge
    supporting_name: /bridge/upstream
    fallback_strategy: pitless-multicast
    default_strategy: bridge-best-route
    faces:
      - kind: tcp
        listen: 0.0.0.0:6363
        local: false
    content_store:
      backend: badger
      capacity: 10000
      path: /var/lib/planesd/cs
    dead_nonce_ttl: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Mgmt.Listen)
	require.Len(t, cfg.Planes, 1)
	require.Equal(t, "bridge", cfg.Planes[0].Plane)
	require.Equal(t, "/bridge/upstream", cfg.Planes[0].SupportingName)
	require.Equal(t, "badger", cfg.Planes[0].Cs.Backend)
	require.Equal(t, stdlog.LevelDebug, cfg.ParseLevel())
}

func TestConfigParseLevelDefaultsOnGarbage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "not-a-level"
	require.Equal(t, stdlog.LevelInfo, cfg.ParseLevel())
}
