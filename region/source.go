package region

import (
	"io"
	"os"
)

// ByteSource is the byte-addressable backing store a lazily-loaded
// Archive reads chunks from on demand (spec.md §4.D's lazy mode). It is
// satisfied by an in-memory buffer (BytesSource) or an open file
// (FileSource); the Archive owns whichever ByteSource it is given and
// never assumes its lifetime.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// BytesSource is a ByteSource backed by an in-memory byte slice.
type BytesSource struct {
	data []byte
}

// NewBytesSource wraps data as a ByteSource without copying it.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.data)) {
		return 0, io.EOF
	}

	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Size returns the number of bytes in the wrapped slice.
func (s *BytesSource) Size() int64 { return int64(len(s.data)) }

// FileSource is a ByteSource backed by an open *os.File. Close releases
// the underlying file descriptor; an Archive built from a FileSource does
// not close it automatically — callers that opened the file own closing
// it.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFileSource opens path for reading and wraps it as a ByteSource.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, err
	}

	return &FileSource{f: f, size: info.Size()}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

// Size returns the file's size as of when it was opened.
func (s *FileSource) Size() int64 { return s.size }

// Close releases the underlying file descriptor.
func (s *FileSource) Close() error { return s.f.Close() }
