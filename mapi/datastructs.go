package mapi

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sensepost/mapidecode/utils"
)

// ErrCorrupted is returned, wrapped, by every decoder in this package
var ErrCorrupted = utils.ErrCorrupted

//PropertyTag struct
type PropertyTag struct {
	PropertyType uint16
	PropertyID   uint16
}

// Uint32 returns the tag in its usual 0xIIIITTTT form
func (tag PropertyTag) Uint32() uint32 {
	return uint32(tag.PropertyID)<<16 | uint32(tag.PropertyType)
}

func (tag PropertyTag) String() string {
	return fmt.Sprintf("0x%08X", tag.Uint32())
}

// TagFromUint32 splits a 0xIIIITTTT tag
func TagFromUint32(v uint32) PropertyTag {
	return PropertyTag{PropertyType: uint16(v), PropertyID: uint16(v >> 16)}
}

// NamedProperty identifies a property by property set and long id (LID)
type NamedProperty struct {
	PropertySet  GUID
	LID          uint32
	PropertyType uint16
}

func (np NamedProperty) String() string {
	return fmt.Sprintf("%s:0x%04X", np.PropertySet, np.LID)
}

// GUID holds 16 bytes in wire order, the first three fields little-endian
type GUID [16]byte

// MustParseGUID parses the textual form of a GUID and panics on failure.
// Only use it for constants.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGUID parses the textual form of a GUID into wire order
func ParseGUID(s string) (GUID, error) {
	var g GUID
	b, err := utils.GUIDToByteArray(s)
	if err != nil {
		return g, err
	}
	copy(g[:], b)
	return g, nil
}

func (g GUID) String() string {
	s, _ := utils.GUIDFromByteArray(g[:])
	return s
}

// MarshalYAML renders the GUID in its textual form
func (g GUID) MarshalYAML() (interface{}, error) {
	return g.String(), nil
}

// GlobalCounter is the 6 byte big-endian counter of a store object id
type GlobalCounter [6]byte

// Uint64 returns the counter value
func (gc GlobalCounter) Uint64() uint64 {
	var v uint64
	for _, b := range gc {
		v = v<<8 | uint64(b)
	}
	return v
}

// MarshalYAML renders the counter as a number
func (gc GlobalCounter) MarshalYAML() (interface{}, error) {
	return gc.Uint64(), nil
}

// Color is a COLORREF, 0x00BBGGRR
type Color uint32

// RGB splits the color into its components
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16)
}

func (c Color) String() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// MarshalYAML renders the color as #RRGGBB
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func corrupted(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCorrupted, format, args...)
}

func readGUID(c *utils.Cursor) (GUID, error) {
	g, err := c.ReadGUID()
	return GUID(g), err
}

func readGlobalCounter(c *utils.Cursor) (GlobalCounter, error) {
	var gc GlobalCounter
	b, err := c.ReadBytes(len(gc))
	if err != nil {
		return gc, err
	}
	copy(gc[:], b)
	return gc, nil
}

// mustBeZero reads a 2 or 4 byte field that the format requires to be zero
func mustBeZero(c *utils.Cursor, width int, field string) error {
	var v uint32
	var err error
	if width == 2 {
		var v16 uint16
		v16, err = c.ReadUint16()
		v = uint32(v16)
	} else {
		v, err = c.ReadUint32()
	}
	if err != nil {
		return err
	}
	if v != 0 {
		return corrupted("%s must be zero, got 0x%X", field, v)
	}
	return nil
}
