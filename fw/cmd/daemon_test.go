package cmd

import (
	"time"

	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndnfw/planes/fw/core"
)

func testConfig(planes ...core.PlaneConfig) *core.Config {
	return &core.Config{
		LogLevel: "error",
		Mgmt:     core.MgmtConfig{Listen: "127.0.0.1:0"},
		Planes:   planes,
	}
}

func TestNewDaemonBuildsClassicalPlaneWithMemFace(t *testing.T) {
	cfg := testConfig(core.PlaneConfig{
		Plane:           "classical",
		DefaultStrategy: "best-route-v2",
		Faces:           []core.FaceConfig{{Kind: "mem", Local: true}},
		Cs:              core.CsConfig{Backend: "memory", Capacity: 16},
		DeadNonceTTL:    time.Second,
	})

	d, err := NewDaemon(cfg)
	require.NoError(t, err)
	require.Len(t, d.planes, 1)
	require.Equal(t, 1, d.planes[0].faces.Len())
}

func TestNewDaemonBuildsPitlessPlane(t *testing.T) {
	cfg := testConfig(core.PlaneConfig{
		Plane: "pitless",
		Faces: []core.FaceConfig{{Kind: "mem"}},
		Cs:    core.CsConfig{Backend: "memory", Capacity: 16},
	})

	d, err := NewDaemon(cfg)
	require.NoError(t, err)
	require.Len(t, d.planes, 1)
}

func TestNewDaemonBuildsBridgePlane(t *testing.T) {
	cfg := testConfig(core.PlaneConfig{
		Plane:            "bridge",
		SupportingName:   "/bridge/upstream",
		FallbackStrategy: "pitless-multicast",
		Faces:            []core.FaceConfig{{Kind: "mem"}},
		Cs:               core.CsConfig{Backend: "memory", Capacity: 16},
		DeadNonceTTL:     time.Second,
	})

	d, err := NewDaemon(cfg)
	require.NoError(t, err)
	require.Len(t, d.planes, 1)
}

func TestNewDaemonRejectsUnknownPlaneKind(t *testing.T) {
	cfg := testConfig(core.PlaneConfig{Plane: "quantum"})

	_, err := NewDaemon(cfg)
	require.Error(t, err)
}

func TestNewDaemonRejectsUnknownCsBackend(t *testing.T) {
	cfg := testConfig(core.PlaneConfig{Plane: "classical", Cs: core.CsConfig{Backend: "not-a-backend"}})

	_, err := NewDaemon(cfg)
	require.Error(t, err)
}

func TestNewDaemonBuildsTwoPlanesUnderDistinctMgmtPrefixes(t *testing.T) {
	cfg := testConfig(
		core.PlaneConfig{Plane: "classical", Faces: []core.FaceConfig{{Kind: "mem"}}, Cs: core.CsConfig{Backend: "memory", Capacity: 16}},
		core.PlaneConfig{Plane: "pitless", Faces: []core.FaceConfig{{Kind: "mem"}}, Cs: core.CsConfig{Backend: "memory", Capacity: 16}},
	)

	d, err := NewDaemon(cfg)
	require.NoError(t, err)
	require.Len(t, d.planes, 2)
	require.Equal(t, "classical", d.planes[0].name)
	require.Equal(t, "pitless", d.planes[1].name)
}
