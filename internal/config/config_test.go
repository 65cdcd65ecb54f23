package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ProjectFileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeProject(t, t.TempDir(), "out: build/\nredeclaration: error\ncolor: false\nrequires: \">= 0.1.0\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Out != "build/" {
		t.Errorf("Out = %q, want %q", cfg.Out, "build/")
	}
	if cfg.Redeclaration != "error" {
		t.Errorf("Redeclaration = %q, want %q", cfg.Redeclaration, "error")
	}
	if cfg.Color == nil || *cfg.Color {
		t.Errorf("Color = %v, want false", cfg.Color)
	}
	if cfg.Dir != filepath.Dir(path) {
		t.Errorf("Dir = %q, want %q", cfg.Dir, filepath.Dir(path))
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := writeProject(t, t.TempDir(), "redeclaration: sometimes\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown redeclaration policy")
	}
}

func TestLoadRejectsUnsatisfiedRequires(t *testing.T) {
	path := writeProject(t, t.TempDir(), "requires: \">= 99.0.0\"\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error when the compiler is older than required")
	}
}

func TestLoadRejectsMalformedRequires(t *testing.T) {
	path := writeProject(t, t.TempDir(), "requires: \"not-a-version\"\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparseable constraint")
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "redeclaration: error\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Find(filepath.Join(nested, "main.clr"))
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Find() did not locate the project file in an ancestor directory")
	}
	if cfg.Redeclaration != "error" {
		t.Errorf("Redeclaration = %q, want %q", cfg.Redeclaration, "error")
	}
}

func TestFindWithoutProjectFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Find(filepath.Join(dir, "main.clr"))
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("Find() = %+v, want nil when no project file exists", cfg)
	}
}
