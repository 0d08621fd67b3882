// Package manifest handles ember.toml host configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/emberhq/ember/runtime"
)

// Manifest represents an ember.toml host configuration.
type Manifest struct {
	Project  Project        `toml:"project"`
	Runtime  RuntimeConfig  `toml:"runtime"`
	Snapshot SnapshotConfig `toml:"snapshot"`

	// Dir is the directory containing the ember.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains embedding-host metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// RuntimeConfig configures runtime instances created by the host.
type RuntimeConfig struct {
	// GCThreshold is the allocation count that triggers a collection pass;
	// 0 disables automatic collection.
	GCThreshold int `toml:"gc-threshold"`
	// Verbosity is the log verbosity passed to the logging backend.
	Verbosity int `toml:"verbosity"`
}

// SnapshotConfig configures diagnostic snapshot output.
type SnapshotConfig struct {
	Output string `toml:"output"`
}

// defaultGCThreshold applies when the manifest does not set one.
const defaultGCThreshold = 4096

// Load parses an ember.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "ember.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults. An explicit gc-threshold = 0 means "disabled" and is kept.
	if !md.IsDefined("runtime", "gc-threshold") {
		m.Runtime.GCThreshold = defaultGCThreshold
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find an ember.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "ember.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ConfigureLogging applies the manifest's verbosity to the logging backend.
func (m *Manifest) ConfigureLogging() {
	commonlog.Configure(m.Runtime.Verbosity, nil)
}

// RuntimeOptions maps the manifest onto runtime options.
func (m *Manifest) RuntimeOptions() runtime.Options {
	return runtime.Options{
		GCThreshold: m.Runtime.GCThreshold,
	}
}

// SnapshotPath returns the configured snapshot output path resolved
// against the manifest directory, or empty when unset.
func (m *Manifest) SnapshotPath() string {
	if m.Snapshot.Output == "" {
		return ""
	}
	if filepath.IsAbs(m.Snapshot.Output) {
		return m.Snapshot.Output
	}
	return filepath.Join(m.Dir, m.Snapshot.Output)
}
