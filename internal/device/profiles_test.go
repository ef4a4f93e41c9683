package device

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinProfiles(t *testing.T) {
	r := NewRegistry()
	p, ok := r.Lookup("wgt3xbt")
	if !ok {
		t.Fatalf("wgt3xbt profile missing")
	}
	if p.ScaleFactor != 256 {
		t.Fatalf("wgt3xbt scale = %g, want 256", p.ScaleFactor)
	}
	p, ok = r.Lookup("GT3XPLUS")
	if !ok {
		t.Fatalf("lookup is not case-insensitive")
	}
	if p.ScaleFactor != 341 {
		t.Fatalf("gt3xplus scale = %g, want 341", p.ScaleFactor)
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Fatalf("unknown profile resolved")
	}
}

func TestLoadFileMergesAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := `profiles:
  - name: wgt3xbt
    sampleRate: 100
    scaleFactor: 256
  - name: labunit
    sampleRate: 40
    scaleFactor: 512
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write profiles failed: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	p, ok := r.Lookup("wgt3xbt")
	if !ok || p.SampleRate != 100 {
		t.Fatalf("override not applied: %+v ok=%v", p, ok)
	}
	p, ok = r.Lookup("labunit")
	if !ok || p.ScaleFactor != 512 || p.SampleRate != 40 {
		t.Fatalf("new profile not loaded: %+v ok=%v", p, ok)
	}
}

func TestLoadFileRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing name", doc: "profiles:\n  - sampleRate: 30\n    scaleFactor: 256\n"},
		{name: "zero rate", doc: "profiles:\n  - name: bad\n    sampleRate: 0\n    scaleFactor: 256\n"},
		{name: "negative scale", doc: "profiles:\n  - name: bad\n    sampleRate: 30\n    scaleFactor: -1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profiles.yaml")
			if err := os.WriteFile(path, []byte(tc.doc), 0644); err != nil {
				t.Fatalf("write profiles failed: %v", err)
			}
			if err := NewRegistry().LoadFile(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
