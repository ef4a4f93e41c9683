package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcp9010/read.gt3x/internal/gt3x"
)

func testResult() *gt3x.Result {
	return &gt3x.Result{
		Samples: [][3]float64{
			{1, -2, 0.5},
			{3, 2, -0.5},
		},
		Timestamps: []int64{0, 100},
		StartTime:  1000,
		SampleRate: 30,
	}
}

func TestBuildSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	if err := os.WriteFile(path, []byte{0x1E, 0x00, 0x01}, 0644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}

	s, err := Build(path, testResult())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.SampleRows != 2 {
		t.Fatalf("SampleRows = %d, want 2", s.SampleRows)
	}
	if s.FileSize != 3 {
		t.Fatalf("FileSize = %d, want 3", s.FileSize)
	}
	if len(s.Sha256) != 64 {
		t.Fatalf("Sha256 length = %d, want 64", len(s.Sha256))
	}
	if s.DurationSec != 1 {
		t.Fatalf("DurationSec = %g, want 1", s.DurationSec)
	}
	if len(s.Axes) != 3 {
		t.Fatalf("axes = %d, want 3", len(s.Axes))
	}
	x := s.Axes[0]
	if x.Axis != "X" || x.Min != 1 || x.Max != 3 || x.Mean != 2 {
		t.Fatalf("X stats = %+v", x)
	}
	y := s.Axes[1]
	if y.Min != -2 || y.Max != 2 || y.Mean != 0 {
		t.Fatalf("Y stats = %+v", y)
	}
}

func TestBuildSummaryEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	s, err := Build(path, &gt3x.Result{SampleRate: 30})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.SampleRows != 0 || s.DurationSec != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
	for _, ax := range s.Axes {
		if ax.Min != 0 || ax.Max != 0 || ax.Mean != 0 {
			t.Fatalf("empty axis stats = %+v", ax)
		}
	}
}

func TestSaveLoadJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "log.bin")
	if err := os.WriteFile(input, []byte{1, 2, 3, 4}, 0644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	s, err := Build(input, testResult())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out := filepath.Join(dir, "summary.json")
	if err := SaveJSON(s, out); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	loaded, err := LoadJSON(out)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded.Sha256 != s.Sha256 || loaded.SampleRows != s.SampleRows {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, s)
	}
}

func TestHashToQR(t *testing.T) {
	png, err := HashToQR("deadbeef", 64)
	if err != nil {
		t.Fatalf("HashToQR failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("empty PNG")
	}
	if _, err := HashToQR("  ", 64); err == nil {
		t.Fatalf("expected error for empty hash")
	}
}
