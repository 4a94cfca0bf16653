package cmd

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBuildInfo_FallsBackToEmbeddedMetadata(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.25.5",
		Main:      debug.Module{Path: "github.com/strrl/triage", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	info := resolveBuildInfo(bi, true)
	assert.Equal(t, buildInfo{
		Version:   "v0.3.1",
		Commit:    "abc123",
		Date:      "2026-10-01T12:00:00Z",
		GoVersion: "go1.25.5",
	}, info)
}

func TestResolveBuildInfo_DevelBuildKeepsDefaults(t *testing.T) {
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	info := resolveBuildInfo(bi, true)
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.Commit)
}

func TestResolveBuildInfo_LinkerValuesWin(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })
	Version, GitCommit = "1.2.0", "feedface"

	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	}

	info := resolveBuildInfo(bi, true)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "feedface", info.Commit)
}

func TestResolveBuildInfo_NoBuildInfo(t *testing.T) {
	info := resolveBuildInfo(nil, false)
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
