package gt3x

import "math"

const significantDigits = 3

// SampleTable is the fixed-capacity arena the activity decoders write into.
// Rows hold raw signed sample values until finalization; the cursor tracks
// how many rows have been claimed and never exceeds the capacity. Rows for
// which the stream ran out of data read as zero.
type SampleTable struct {
	samples [][activityAxes]int16
	stamps  []int64
	cursor  int
}

func NewSampleTable(capacity int) *SampleTable {
	if capacity < 0 {
		capacity = 0
	}
	return &SampleTable{
		samples: make([][activityAxes]int16, capacity),
		stamps:  make([]int64, capacity),
	}
}

func (t *SampleTable) Capacity() int {
	return len(t.samples)
}

// Len reports the number of rows claimed so far.
func (t *SampleTable) Len() int {
	return t.cursor
}

// Remaining reports how many rows are still free.
func (t *SampleTable) Remaining() int {
	return len(t.samples) - t.cursor
}

func (t *SampleTable) SetSample(row, axis int, v int16) {
	if row < 0 || row >= len(t.samples) || axis < 0 || axis >= activityAxes {
		return
	}
	t.samples[row][axis] = v
}

func (t *SampleTable) SetTimestamp(row int, ts int64) {
	if row < 0 || row >= len(t.stamps) {
		return
	}
	t.stamps[row] = ts
}

// Advance claims n rows for a decoded record, clamping at capacity.
func (t *SampleTable) Advance(n int) {
	if n <= 0 {
		return
	}
	t.cursor += n
	if t.cursor > len(t.samples) {
		t.cursor = len(t.samples)
	}
}

// Finalize scales every claimed row by 1/scale, rounds to three significant
// decimal places, and returns the table and timestamp vector truncated to the
// claimed row count.
func (t *SampleTable) Finalize(scale float64) ([][activityAxes]float64, []int64) {
	digitMultiplier := math.Pow(10, significantDigits)
	out := make([][activityAxes]float64, t.cursor)
	for i := 0; i < t.cursor; i++ {
		for j := 0; j < activityAxes; j++ {
			out[i][j] = math.Round(float64(t.samples[i][j])/scale*digitMultiplier) / digitMultiplier
		}
	}
	stamps := make([]int64, t.cursor)
	copy(stamps, t.stamps[:t.cursor])
	return out, stamps
}
