package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "ember.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "telemetry-host"
version = "0.3.0"

[runtime]
gc-threshold = 512
verbosity = 2

[snapshot]
output = "out/registry.cbor"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Project.Name != "telemetry-host" {
		t.Errorf("project name = %q", m.Project.Name)
	}
	if m.Project.Version != "0.3.0" {
		t.Errorf("project version = %q", m.Project.Version)
	}
	if m.Runtime.GCThreshold != 512 {
		t.Errorf("gc-threshold = %d, want 512", m.Runtime.GCThreshold)
	}
	if m.Runtime.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", m.Runtime.Verbosity)
	}
	if m.Dir == "" || !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %q, want absolute", m.Dir)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "bare"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Runtime.GCThreshold != defaultGCThreshold {
		t.Errorf("gc-threshold default = %d, want %d", m.Runtime.GCThreshold, defaultGCThreshold)
	}
	if m.SnapshotPath() != "" {
		t.Errorf("SnapshotPath = %q for unset output", m.SnapshotPath())
	}
}

func TestLoadExplicitZeroGCThreshold(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[runtime]
gc-threshold = 0
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Zero disables automatic collection; the default applies only when
	// the key is absent.
	if m.Runtime.GCThreshold != 0 {
		t.Errorf("gc-threshold = %d, want explicit 0 kept", m.Runtime.GCThreshold)
	}
	if opts := m.RuntimeOptions(); opts.GCThreshold != 0 {
		t.Errorf("RuntimeOptions().GCThreshold = %d, want 0", opts.GCThreshold)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of an empty directory succeeded")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[runtime\ngc-threshold =")
	if _, err := Load(dir); err == nil {
		t.Error("Load of malformed TOML succeeded")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
name = "nested"
`)

	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	m, err := FindAndLoad(deep)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad did not walk up to the manifest")
	}
	if m.Project.Name != "nested" {
		t.Errorf("project name = %q", m.Project.Name)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m != nil {
		t.Errorf("FindAndLoad found a manifest where none exists: %+v", m)
	}
}

func TestRuntimeOptions(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[runtime]
gc-threshold = 128
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts := m.RuntimeOptions(); opts.GCThreshold != 128 {
		t.Errorf("RuntimeOptions().GCThreshold = %d, want 128", opts.GCThreshold)
	}
}

func TestSnapshotPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[snapshot]
output = "diag/reg.cbor"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(m.Dir, "diag", "reg.cbor")
	if got := m.SnapshotPath(); got != want {
		t.Errorf("SnapshotPath = %q, want %q", got, want)
	}

	abs := filepath.Join(t.TempDir(), "abs.cbor")
	writeManifest(t, dir, "[snapshot]\noutput = \""+abs+"\"\n")
	m, err = Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.SnapshotPath(); got != abs {
		t.Errorf("absolute SnapshotPath = %q, want %q", got, abs)
	}
}
