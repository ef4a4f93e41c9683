package gt3x

import (
	"errors"
	"io"
)

const minDataBlockSize = 4 << 20

// dataSource provides windowed, forward-friendly access to the log bytes.
type dataSource interface {
	Size() int64
	Slice(offset int64, length int) ([]byte, error)
	Close() error
}

// blockSource buffers block-sized windows of an io.ReaderAt so the
// byte-at-a-time separator scan does not hit the underlying reader per byte.
type blockSource struct {
	ra        io.ReaderAt
	closer    io.Closer
	size      int64
	blockSize int
	buf       []byte
	bufStart  int64
	bufLen    int
}

func newBlockSource(ra io.ReaderAt, closer io.Closer, size int64, blockSize int) *blockSource {
	if blockSize < minDataBlockSize {
		blockSize = minDataBlockSize
	}
	return &blockSource{ra: ra, closer: closer, size: size, blockSize: blockSize}
}

func (bs *blockSource) Size() int64 {
	return bs.size
}

func (bs *blockSource) Close() error {
	bs.ra = nil
	bs.buf = nil
	bs.bufLen = 0
	if bs.closer == nil {
		return nil
	}
	err := bs.closer.Close()
	bs.closer = nil
	return err
}

func (bs *blockSource) grow(need int) {
	newSize := bs.blockSize
	if newSize == 0 {
		newSize = minDataBlockSize
	}
	for newSize < need {
		newSize *= 2
	}
	bs.blockSize = newSize
	bs.buf = make([]byte, bs.blockSize)
	bs.bufLen = 0
	bs.bufStart = 0
}

func (bs *blockSource) ensure(offset int64, length int) error {
	if bs.ra == nil {
		return io.EOF
	}
	if length > bs.blockSize {
		bs.grow(length)
	}
	if bs.buf == nil {
		bs.buf = make([]byte, bs.blockSize)
	}
	if offset >= bs.bufStart && offset+int64(length) <= bs.bufStart+int64(bs.bufLen) {
		return nil
	}
	if offset >= bs.size {
		bs.bufLen = 0
		return io.EOF
	}
	bs.bufStart = offset
	remain := bs.size - offset
	toRead := bs.blockSize
	if int64(toRead) > remain {
		toRead = int(remain)
	}
	if toRead <= 0 {
		bs.bufLen = 0
		return io.EOF
	}
	n, err := bs.ra.ReadAt(bs.buf[:toRead], offset)
	if n < toRead && err == nil {
		err = io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		bs.bufLen = 0
		return err
	}
	bs.bufLen = n
	if bs.bufLen == 0 {
		return io.EOF
	}
	return err
}

// Slice returns a view of length bytes at offset. At the end of the data the
// view may be shorter than requested, with io.EOF alongside it.
func (bs *blockSource) Slice(offset int64, length int) ([]byte, error) {
	if length <= 0 {
		return []byte{}, nil
	}
	if offset < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if offset >= bs.size {
		return nil, io.EOF
	}
	err := bs.ensure(offset, length)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if bs.bufLen == 0 {
		return nil, io.EOF
	}
	start := int(offset - bs.bufStart)
	if start < 0 || start >= bs.bufLen {
		return nil, io.ErrUnexpectedEOF
	}
	end := start + length
	if end > bs.bufLen {
		end = bs.bufLen
	}
	view := bs.buf[start:end]
	if len(view) < length {
		return view, io.EOF
	}
	return view, err
}
