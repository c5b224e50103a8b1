package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Buffer is an exclusively-owned in-memory copy of a file, backing exactly
// one parse operation. It must be released on every exit path of the scope
// that acquired it; reads after release fail.
type Buffer struct {
	data     []byte
	released bool
}

// LoadFile reads the whole file at path into a new Buffer.
func LoadFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data}, nil
}

// NewBuffer wraps an existing byte slice. The Buffer takes ownership of it.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Release drops the backing memory. Safe to call more than once; only the
// first call has any effect.
func (b *Buffer) Release() {
	b.data = nil
	b.released = true
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released
}

// Len returns the size of the buffer in bytes, or 0 after release.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Contains reports whether the raw bytes contain the given needle.
// Used by cheap binary-match prefilters that never parse the asset.
func (b *Buffer) Contains(needle []byte) bool {
	return bytes.Contains(b.data, needle)
}

// Reader returns a cursor-based read stream positioned at the start of the
// buffer. The reader borrows the buffer; it must not be used after Release.
func (b *Buffer) Reader() *Reader {
	return &Reader{buf: b}
}

// Reader is a sequential cursor over a Buffer. All values are little-endian.
//
// Errors are sticky: after the first failed read every subsequent read
// returns a zero value, and Err reports the original failure. This keeps
// deserialization code linear; callers check Err at structural boundaries.
type Reader struct {
	buf *Buffer
	off int
	err error
}

// Err returns the first error encountered by any read, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.buf.data) {
		r.fail(fmt.Errorf("seek to %d outside buffer of %d bytes", off, len(r.buf.data)))
		return
	}
	r.off = off
}

// Skip advances the cursor by n bytes without interpreting them.
func (r *Reader) Skip(n int) {
	if r.take(n) == nil && r.err == nil {
		r.fail(fmt.Errorf("skip of %d bytes at offset %d overruns buffer", n, r.off))
	}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf.data) - r.off
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// take returns the next n bytes and advances the cursor, or nil on failure.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.buf.released {
		r.fail(fmt.Errorf("read from released buffer"))
		return nil
	}
	if n < 0 || r.off+n > len(r.buf.data) {
		r.fail(fmt.Errorf("read of %d bytes at offset %d overruns buffer of %d bytes", n, r.off, len(r.buf.data)))
		return nil
	}
	out := r.buf.data[r.off : r.off+n]
	r.off += n
	return out
}

// Bytes returns the next n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// UInt8 reads one unsigned byte.
func (r *Reader) UInt8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool8 reads one byte and interprets any non-zero value as true.
func (r *Reader) Bool8() bool {
	return r.UInt8() != 0
}

// UInt16 reads a little-endian uint16.
func (r *Reader) UInt16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// UInt32 reads a little-endian uint32.
func (r *Reader) UInt32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() int32 {
	return int32(r.UInt32())
}

// UInt64 reads a little-endian uint64.
func (r *Reader) UInt64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Float32 reads a little-endian IEEE-754 single.
func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.UInt32())
}

// String reads a length-prefixed, NUL-terminated string. The prefix counts
// the terminator. A zero length denotes the empty string.
func (r *Reader) String() string {
	n := r.Int32()
	if r.err != nil {
		return ""
	}
	if n == 0 {
		return ""
	}
	if n < 0 {
		// Wide (UTF-16) strings are not produced by the containers we
		// consume; reject rather than silently misread.
		r.fail(fmt.Errorf("unsupported wide string (length %d) at offset %d", n, r.off))
		return ""
	}
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	if b[n-1] != 0 {
		r.fail(fmt.Errorf("string at offset %d is not NUL-terminated", r.off-int(n)))
		return ""
	}
	return string(b[:n-1])
}
