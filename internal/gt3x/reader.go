package gt3x

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jcp9010/read.gt3x/internal/common"
)

// ErrCapacity stops the parse loop once the next activity record would
// overflow the sample table. The accumulated rows remain valid.
var ErrCapacity = errors.New("sample capacity reached")

// Options configures one decode pass.
type Options struct {
	// MaxSamples bounds the number of sample rows the decode may produce.
	MaxSamples int
	// ScaleFactor divides raw sample values during finalization (device
	// counts per g).
	ScaleFactor float64
	// SampleRate is the per-second sample count used to reconstruct
	// sub-second timestamps.
	SampleRate int
	// Verbose dumps parameter records to Diag; Debug adds a line per
	// activity record. Neither affects returned data.
	Verbose bool
	Debug   bool
	// Diag receives verbose/debug output. Defaults to os.Stdout.
	Diag io.Writer
}

func (o Options) validate() error {
	if o.MaxSamples <= 0 {
		return fmt.Errorf("max samples must be positive, got %d", o.MaxSamples)
	}
	if o.ScaleFactor <= 0 {
		return fmt.Errorf("scale factor must be positive, got %g", o.ScaleFactor)
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", o.SampleRate)
	}
	return nil
}

// Result is the finalized output of one decode pass: the scaled sample table
// and timestamp vector truncated to the decoded row count, plus the derived
// stream metadata.
type Result struct {
	Samples    [][activityAxes]float64
	Timestamps []int64
	StartTime  uint32
	SampleRate int
}

// Reader walks a GT3X log stream record by record, accumulating activity
// samples into its table. It owns the table exclusively for the whole pass.
type Reader struct {
	source dataSource
	size   int64
	offset int64

	opts Options
	diag io.Writer

	table     *SampleTable
	startTime uint32
	stopped   bool

	metrics *common.Metrics
}

// NewReader opens the log file at path and prepares a decode pass.
func NewReader(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := newReader(newBlockSource(f, f, info.Size(), minDataBlockSize), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewStreamReader prepares a decode pass over an already-open byte stream.
// Closing the reader does not close the underlying stream.
func NewStreamReader(ra io.ReaderAt, size int64, opts Options) (*Reader, error) {
	return newReader(newBlockSource(ra, nil, size, minDataBlockSize), opts)
}

func newReader(src dataSource, opts Options) (*Reader, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	diag := opts.Diag
	if diag == nil {
		diag = os.Stdout
	}
	return &Reader{
		source: src,
		size:   src.Size(),
		opts:   opts,
		diag:   diag,
		table:  NewSampleTable(opts.MaxSamples),
	}, nil
}

// Close releases the underlying file handle, if the reader owns one.
func (r *Reader) Close() error {
	if r.source == nil {
		return nil
	}
	err := r.source.Close()
	r.source = nil
	return err
}

// SetMetrics attaches a metrics recorder to the reader.
func (r *Reader) SetMetrics(m *common.Metrics) {
	r.metrics = m
	if r.metrics != nil {
		r.metrics.SetTotalBytes(r.size)
	}
}

// StartTime returns the device start time captured from parameter records so
// far.
func (r *Reader) StartTime() uint32 {
	return r.startTime
}

// Samples returns the number of sample rows decoded so far.
func (r *Reader) Samples() int {
	return r.table.Len()
}

// Next processes one record: it scans for the separator, parses the header,
// and dispatches the payload to the matching decoder or skips it. It returns
// io.EOF when the stream is exhausted and ErrCapacity when the next record
// would overflow the sample table. Bytes that are not a record separator are
// warned about and skipped one at a time; truncated trailing records end the
// pass silently.
func (r *Reader) Next() (RecordHeader, error) {
	if r.source == nil || r.stopped {
		return RecordHeader{}, io.EOF
	}
	for {
		view, err := r.source.Slice(r.offset, 1)
		if len(view) < 1 {
			if err != nil && !errors.Is(err, io.EOF) {
				return RecordHeader{}, err
			}
			return RecordHeader{}, io.EOF
		}
		sep := view[0]
		r.offset++
		if sep != recordSeparator {
			common.Logf("offset %d: byte 0x%02X is not a record separator", r.offset-1, sep)
			if r.metrics != nil {
				r.metrics.IncDesync()
			}
			r.addBytes(1)
			continue
		}

		hdrView, err := r.source.Slice(r.offset, recordHeaderSize)
		if len(hdrView) < recordHeaderSize {
			if err != nil && !errors.Is(err, io.EOF) {
				return RecordHeader{}, err
			}
			return RecordHeader{}, io.EOF
		}
		hdr, err := parseRecordHeader(hdrView)
		if err != nil {
			return RecordHeader{}, err
		}
		r.offset += recordHeaderSize

		expected := expectedSamples(hdr.Type, hdr.Size)
		if expected > r.table.Remaining() {
			common.Logf("max samples reached prematurely: %s record carries %d rows, %d remain",
				hdr.Type, expected, r.table.Remaining())
			r.stopped = true
			return hdr, ErrCapacity
		}

		switch hdr.Type.kind() {
		case kindParameters:
			r.parseParameters(r.payload(hdr.Size))
		case kindActivity:
			r.decodeActivity(r.payload(hdr.Size), hdr, r.table.Len(), expected)
			r.table.Advance(expected)
		case kindActivity2:
			r.decodeActivity2(r.payload(hdr.Size), hdr, r.table.Len(), expected)
			r.table.Advance(expected)
		case kindSkip:
			// Payload discarded without a read.
		}

		// Payload plus the trailing checksum byte, which is consumed but
		// never verified.
		r.advance(int64(hdr.Size) + 1)
		if r.metrics != nil {
			r.metrics.AddRecord(1+recordHeaderSize+int64(hdr.Size)+1, int64(expected))
		}
		return hdr, nil
	}
}

// payload returns a view of the current record's payload. At the end of the
// stream the view may be shorter than the header claims; decoders tolerate
// the truncation.
func (r *Reader) payload(size uint16) []byte {
	view, err := r.source.Slice(r.offset, int(size))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil
	}
	return view
}

func (r *Reader) advance(n int64) {
	r.offset += n
	if r.offset > r.size {
		r.offset = r.size
	}
}

func (r *Reader) addBytes(n int64) {
	if r.metrics != nil {
		r.metrics.AddBytes(n)
	}
}

// Decode drains the stream and finalizes the accumulated table.
func (r *Reader) Decode() (*Result, error) {
	for {
		_, err := r.Next()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, ErrCapacity) {
			break
		}
		return nil, err
	}
	if r.opts.Verbose {
		fmt.Fprintf(r.diag, "decoded %d sample rows\n", r.table.Len())
	}
	return r.Result(), nil
}

// Result finalizes the table accumulated so far: rows are scaled and rounded,
// and both the table and the timestamp vector are truncated to the decoded
// row count.
func (r *Reader) Result() *Result {
	samples, stamps := r.table.Finalize(r.opts.ScaleFactor)
	return &Result{
		Samples:    samples,
		Timestamps: stamps,
		StartTime:  r.startTime,
		SampleRate: r.opts.SampleRate,
	}
}

// DecodeFile decodes the log file at path in one pass.
func DecodeFile(path string, opts Options) (*Result, error) {
	r, err := NewReader(path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Decode()
}
