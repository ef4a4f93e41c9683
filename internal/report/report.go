package report

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/jcp9010/read.gt3x/internal/common"
	"github.com/jcp9010/read.gt3x/internal/gt3x"
)

var axisNames = [3]string{"X", "Y", "Z"}

// AxisStats summarizes one acceleration axis of a decoded table.
type AxisStats struct {
	Axis string  `json:"axis"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Summary is the decode report written next to the exported samples.
type Summary struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	File        string      `json:"file"`
	FileSize    int64       `json:"fileSize"`
	Sha256      string      `json:"sha256"`
	SampleRows  int         `json:"sampleRows"`
	StartTime   uint32      `json:"startTime"`
	SampleRate  int         `json:"sampleRate"`
	DurationSec float64     `json:"durationSec"`
	Axes        []AxisStats `json:"axes"`
}

// Build summarizes a decode result, hashing the input file so the report can
// be tied back to the exact bytes it describes.
func Build(path string, res *gt3x.Result) (Summary, error) {
	hash, size, err := common.Sha256OfFile(path)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		GeneratedAt: time.Now().UTC(),
		File:        path,
		FileSize:    size,
		Sha256:      hash,
		SampleRows:  len(res.Samples),
		StartTime:   res.StartTime,
		SampleRate:  res.SampleRate,
	}
	if n := len(res.Timestamps); n > 0 {
		s.DurationSec = float64(res.Timestamps[n-1]-res.Timestamps[0]) / 100
	}
	s.Axes = axisStats(res.Samples)
	return s, nil
}

func axisStats(samples [][3]float64) []AxisStats {
	stats := make([]AxisStats, len(axisNames))
	for j, name := range axisNames {
		st := AxisStats{Axis: name, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for i := range samples {
			v := samples[i][j]
			if v < st.Min {
				st.Min = v
			}
			if v > st.Max {
				st.Max = v
			}
			sum += v
		}
		if len(samples) == 0 {
			st.Min, st.Max = 0, 0
		} else {
			st.Mean = sum / float64(len(samples))
		}
		stats[j] = st
	}
	return stats
}

func SaveJSON(s Summary, out string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadJSON(path string) (Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, err
	}
	return s, nil
}
