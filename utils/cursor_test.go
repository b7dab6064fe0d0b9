package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReads(t *testing.T) {
	buf := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	}
	c := NewCursor(buf)

	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), u32)

	u64, err := c.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0F0E0D0C0B0A0908), u64)

	assert.Equal(t, 0, c.Remaining())
	assert.NoError(t, c.Done())
}

func TestCursorShortReadsKeepPosition(t *testing.T) {
	reads := map[string]func(c *Cursor) error{
		"uint16": func(c *Cursor) error { _, err := c.ReadUint16(); return err },
		"uint32": func(c *Cursor) error { _, err := c.ReadUint32(); return err },
		"uint64": func(c *Cursor) error { _, err := c.ReadUint64(); return err },
		"guid":   func(c *Cursor) error { _, err := c.ReadGUID(); return err },
		"bytes":  func(c *Cursor) error { _, err := c.ReadBytes(2); return err },
		"sub":    func(c *Cursor) error { _, err := c.Sub(2); return err },
		"ascii":  func(c *Cursor) error { _, err := c.ReadASCIIString(); return err },
		"utf16":  func(c *Cursor) error { _, err := c.ReadUnicodeString(); return err },
	}

	for name, read := range reads {
		t.Run(name, func(t *testing.T) {
			c := NewCursor([]byte{0x41, 0x42})
			_, err := c.ReadByte()
			require.NoError(t, err)
			assert.ErrorIs(t, read(c), ErrCorrupted)
			assert.Equal(t, 1, c.Pos())
		})
	}
}

func TestCursorNegativeLengths(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x00})
	_, err := c.ReadBytes(-1)
	assert.ErrorIs(t, err, ErrCorrupted)
	_, err = c.Sub(-1)
	assert.ErrorIs(t, err, ErrCorrupted)
	assert.ErrorIs(t, c.Seek(-1), ErrCorrupted)
	assert.ErrorIs(t, c.Seek(3), ErrCorrupted)
	assert.NoError(t, c.Seek(2))
	assert.Equal(t, 0, c.Remaining())
}

func TestCursorReadBytesCopies(t *testing.T) {
	buf := []byte{0x01, 0x02}
	out, err := NewCursor(buf).ReadBytes(2)
	require.NoError(t, err)
	out[0] = 0xFF
	assert.Equal(t, byte(0x01), buf[0])
}

func TestCursorSub(t *testing.T) {
	c := NewCursor([]byte{0xAA, 0x01, 0x00, 0x00, 0x00, 0xBB})
	_, err := c.ReadByte()
	require.NoError(t, err)

	sub, err := c.Sub(4)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Pos())
	assert.Equal(t, 0, sub.Pos())
	assert.Equal(t, 4, sub.Len())

	v, err := sub.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
	_, err = sub.ReadByte()
	assert.ErrorIs(t, err, ErrCorrupted, "a sub cursor must not read into its parent")
	assert.NoError(t, sub.Done())
}

func TestCursorCheckCount(t *testing.T) {
	c := NewCursor(make([]byte, 36))
	assert.NoError(t, c.CheckCount(1, 36))
	assert.NoError(t, c.CheckCount(0, 36))
	assert.ErrorIs(t, c.CheckCount(2, 36), ErrCorrupted)
	assert.ErrorIs(t, c.CheckCount(0xFFFFFFFF, 36), ErrCorrupted)
	assert.ErrorIs(t, c.CheckCount(1<<63, 1), ErrCorrupted)
}

func TestCursorStrings(t *testing.T) {
	t.Run("ascii", func(t *testing.T) {
		c := NewCursor([]byte("ab\x00\x00c"))
		s, err := c.ReadASCIIString()
		require.NoError(t, err)
		assert.Equal(t, "ab", s)
		s, err = c.ReadASCIIString()
		require.NoError(t, err)
		assert.Equal(t, "", s)
		_, err = c.ReadASCIIString()
		assert.ErrorIs(t, err, ErrCorrupted)
		assert.Equal(t, 4, c.Pos())
	})

	t.Run("utf16", func(t *testing.T) {
		buf := append(UniString("Grüße"), UniString("")...)
		c := NewCursor(buf)
		s, err := c.ReadString(true)
		require.NoError(t, err)
		assert.Equal(t, "Grüße", s)
		s, err = c.ReadString(true)
		require.NoError(t, err)
		assert.Equal(t, "", s)
		assert.NoError(t, c.Done())
	})

	t.Run("utf16 zero pair across two code units", func(t *testing.T) {
		// U+0100 U+0041 then the terminator. Bytes 3 and 4 are both zero but
		// belong to different code units.
		c := NewCursor([]byte{0x00, 0x01, 0x41, 0x00, 0x00, 0x00})
		s, err := c.ReadUnicodeString()
		require.NoError(t, err)
		assert.Equal(t, "ĀA", s)
		assert.NoError(t, c.Done())
	})

	t.Run("utf16 odd trailing byte", func(t *testing.T) {
		c := NewCursor([]byte{0x41, 0x00, 0x00})
		_, err := c.ReadUnicodeString()
		assert.ErrorIs(t, err, ErrCorrupted)
	})
}

func TestCursorDone(t *testing.T) {
	c := NewCursor([]byte{0x00})
	assert.ErrorIs(t, c.Done(), ErrCorrupted)
}
