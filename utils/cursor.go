package utils

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// ErrCorrupted is the single failure kind for every decode in this module.
// Short reads, bad magic values and nonzero reserved fields all wrap it.
var ErrCorrupted = errors.New("corrupted")

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Cursor is a bounds checked little-endian reader over an immutable buffer.
// A failed read leaves the position where it was.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset into the buffer
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the total length of the buffer
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Seek moves to an absolute offset. Seeking to Len() is allowed.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return errors.Wrapf(ErrCorrupted, "seek to %d outside buffer of %d bytes", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.Remaining() {
		return errors.Wrapf(ErrCorrupted, "read of %d bytes at offset %d, only %d left", n, c.pos, c.Remaining())
	}
	return nil
}

// CheckCount fails unless count elements of elemSize bytes could still fit in
// the unread part of the buffer. Call it before trusting a count read from
// the buffer to size an allocation.
func (c *Cursor) CheckCount(count uint64, elemSize int) error {
	if elemSize <= 0 {
		return nil
	}
	if count > uint64(c.Remaining()/elemSize) {
		return errors.Wrapf(ErrCorrupted, "count %d of %d byte elements exceeds %d remaining bytes", count, elemSize, c.Remaining())
	}
	return nil
}

// ReadByte reads a single byte
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadUint16 reads 2 bytes
func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// ReadUint32 reads 4 bytes
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadUint64 reads 8 bytes
func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// ReadBytes returns a copy of the next count bytes
func (c *Cursor) ReadBytes(count int) ([]byte, error) {
	if err := c.need(count); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	copy(out, c.buf[c.pos:c.pos+count])
	c.pos += count
	return out, nil
}

// ReadGUID reads 16 raw bytes, in the order they appear on the wire
func (c *Cursor) ReadGUID() ([16]byte, error) {
	var g [16]byte
	if err := c.need(16); err != nil {
		return g, err
	}
	copy(g[:], c.buf[c.pos:])
	c.pos += 16
	return g, nil
}

// Sub consumes size bytes and returns a cursor over exactly those bytes.
// Positions in the returned cursor start at zero.
func (c *Cursor) Sub(size int) (*Cursor, error) {
	if err := c.need(size); err != nil {
		return nil, err
	}
	sub := &Cursor{buf: c.buf[c.pos : c.pos+size : c.pos+size]}
	c.pos += size
	return sub, nil
}

// ReadASCIIString reads 8-bit characters up to a NUL. The terminator is
// consumed but not returned.
func (c *Cursor) ReadASCIIString() (string, error) {
	index := bytes.IndexByte(c.buf[c.pos:], 0x00)
	if index == -1 {
		return "", errors.Wrapf(ErrCorrupted, "unterminated string at offset %d", c.pos)
	}
	str := string(c.buf[c.pos : c.pos+index])
	c.pos += index + 1
	return str, nil
}

// ReadUnicodeString reads UTF-16LE code units up to a 0x0000 unit. A zero
// byte pair that straddles two code units does not terminate the string,
// unlike a plain bytes.Index on the buffer.
func (c *Cursor) ReadUnicodeString() (string, error) {
	end := -1
	for i := c.pos; i+1 < len(c.buf); i += 2 {
		if c.buf[i] == 0 && c.buf[i+1] == 0 {
			end = i
			break
		}
	}
	if end == -1 {
		return "", errors.Wrapf(ErrCorrupted, "unterminated unicode string at offset %d", c.pos)
	}
	str, err := utf16le.NewDecoder().Bytes(c.buf[c.pos:end])
	if err != nil {
		return "", errors.Wrapf(ErrCorrupted, "unicode string at offset %d: %v", c.pos, err)
	}
	c.pos = end + 2
	return string(str), nil
}

// ReadString reads either an 8-bit or a UTF-16LE NUL-terminated string
func (c *Cursor) ReadString(unicode bool) (string, error) {
	if unicode {
		return c.ReadUnicodeString()
	}
	return c.ReadASCIIString()
}

// Done fails if any byte of the buffer is left unread
func (c *Cursor) Done() error {
	if c.Remaining() != 0 {
		return errors.Wrapf(ErrCorrupted, "%d trailing bytes after offset %d", c.Remaining(), c.pos)
	}
	return nil
}
