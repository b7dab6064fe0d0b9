package mapi

import (
	"github.com/sensepost/mapidecode/utils"
)

// BusinessCardTemplate is the card layout, relative to the image
type BusinessCardTemplate uint8

//Business card templates
const (
	TemplateImageLeft BusinessCardTemplate = iota
	TemplateImageRight
	TemplateImageTop
	TemplateImageBottom
	TemplateNoImage
	TemplateBackgroundOnly
)

// ImageAlignment is where the image sits in its area
type ImageAlignment uint8

//Image alignments
const (
	ImageStretch ImageAlignment = iota
	ImageTopLeft
	ImageTopCenter
	ImageTopRight
	ImageMiddleLeft
	ImageMiddleCenter
	ImageMiddleRight
	ImageBottomLeft
	ImageBottomCenter
	ImageBottomRight
)

// ImageSource says where the card image comes from
type ImageSource uint8

//Image sources
const (
	ImageSourceContactPhoto ImageSource = 0x00
	ImageSourceCardPicture  ImageSource = 0x01
)

// TextFormat is the FieldInfo text format bit field
type TextFormat uint8

//Text formats
const (
	TextMultiline   TextFormat = 0x01
	TextAlignCenter TextFormat = 0x02
	TextAlignRight  TextFormat = 0x04
	TextBold        TextFormat = 0x08
	TextItalic      TextFormat = 0x10
	TextUnderline   TextFormat = 0x20
	textFormatMask             = 0x3F
)

// LabelFormat is the FieldInfo label format bit field
type LabelFormat uint8

//Label formats
const (
	LabelLeft       LabelFormat = 0x01
	LabelRight      LabelFormat = 0x02
	LabelBold       LabelFormat = 0x08
	LabelItalic     LabelFormat = 0x10
	LabelUnderline  LabelFormat = 0x20
	labelFormatMask             = 0x3B
)

// BusinessCardDisplayDefinition is the PidLidBusinessCardDisplayDefinition
// value of a contact
type BusinessCardDisplayDefinition struct {
	MajorVersion    uint8
	MinorVersion    uint8
	TemplateID      BusinessCardTemplate
	CountOfFields   uint8
	FieldInfoSize   uint8 //always 16
	ExtraInfoSize   uint8
	ImageAlignment  ImageAlignment
	ImageSource     ImageSource
	BackgroundColor Color
	ImageArea       uint8 //percent of the card taken by the image
	Reserved        uint32
	Fields          []FieldInfo
	ExtraInfo       []string
}

// FieldInfo lays out one contact property on the card
type FieldInfo struct {
	TextPropertyID uint16
	TextFormat     TextFormat
	LabelFormat    LabelFormat
	FontSize       uint8
	Reserved       uint8
	LabelOffset    uint16 //byte offset into ExtraInfo, or NoLabel
	ValueFontColor Color
	LabelFontColor Color
	Label          string `yaml:",omitempty"`
}

// HasLabel reports whether the field points at a label string
func (f FieldInfo) HasLabel() bool {
	return f.LabelOffset != NoLabel
}

// ParseBusinessCard decodes a whole PidLidBusinessCardDisplayDefinition value.
// Any byte left after the string pool fails the decode.
func ParseBusinessCard(buf []byte) (*BusinessCardDisplayDefinition, error) {
	c := utils.NewCursor(buf)
	bc, err := DecodeBusinessCard(c)
	if err != nil {
		return nil, err
	}
	if err = c.Done(); err != nil {
		return nil, err
	}
	return bc, nil
}

// DecodeBusinessCard decodes the header, the field records and the string
// pool. The pool is bounded by ExtraInfoSize bytes, not by a string count.
func DecodeBusinessCard(c *utils.Cursor) (*BusinessCardDisplayDefinition, error) {
	if c.Remaining() < bcHeaderSize {
		return nil, corrupted("business card of %d bytes is shorter than its header", c.Remaining())
	}
	bc := &BusinessCardDisplayDefinition{}
	if err := bc.unmarshalHeader(c); err != nil {
		return nil, err
	}
	if err := c.CheckCount(uint64(bc.CountOfFields), bcFieldInfoSize); err != nil {
		return nil, err
	}
	bc.Fields = make([]FieldInfo, bc.CountOfFields)
	for k := range bc.Fields {
		if err := bc.Fields[k].Unmarshal(c); err != nil {
			return nil, err
		}
	}

	pool, err := c.Sub(int(bc.ExtraInfoSize))
	if err != nil {
		return nil, err
	}
	offsets := map[int]int{}
	for pool.Remaining() > 0 {
		offsets[pool.Pos()] = len(bc.ExtraInfo)
		str, err := pool.ReadUnicodeString()
		if err != nil {
			return nil, err
		}
		bc.ExtraInfo = append(bc.ExtraInfo, str)
	}

	for k := range bc.Fields {
		f := &bc.Fields[k]
		if !f.HasLabel() {
			continue
		}
		idx, ok := offsets[int(f.LabelOffset)]
		if !ok {
			return nil, corrupted("field %d label offset %d is not the start of a string", k, f.LabelOffset)
		}
		f.Label = bc.ExtraInfo[idx]
	}
	return bc, nil
}

func (bc *BusinessCardDisplayDefinition) unmarshalHeader(c *utils.Cursor) error {
	var err error
	if bc.MajorVersion, err = c.ReadByte(); err != nil {
		return err
	}
	if bc.MajorVersion < bcMinMajorVersion {
		return corrupted("business card major version %d", bc.MajorVersion)
	}
	if bc.MinorVersion, err = c.ReadByte(); err != nil {
		return err
	}
	b, err := c.ReadByte()
	if err != nil {
		return err
	}
	bc.TemplateID = BusinessCardTemplate(b)
	if bc.TemplateID > TemplateBackgroundOnly {
		return corrupted("business card template 0x%02X", b)
	}
	if bc.CountOfFields, err = c.ReadByte(); err != nil {
		return err
	}
	if bc.FieldInfoSize, err = c.ReadByte(); err != nil {
		return err
	}
	if bc.FieldInfoSize != bcFieldInfoSize {
		return corrupted("business card field info size %d", bc.FieldInfoSize)
	}
	if bc.ExtraInfoSize, err = c.ReadByte(); err != nil {
		return err
	}
	if b, err = c.ReadByte(); err != nil {
		return err
	}
	bc.ImageAlignment = ImageAlignment(b)
	if bc.ImageAlignment > ImageBottomRight {
		return corrupted("business card image alignment 0x%02X", b)
	}
	if b, err = c.ReadByte(); err != nil {
		return err
	}
	bc.ImageSource = ImageSource(b)
	if bc.ImageSource > ImageSourceCardPicture {
		return corrupted("business card image source 0x%02X", b)
	}
	color, err := c.ReadUint32()
	if err != nil {
		return err
	}
	bc.BackgroundColor = Color(color)
	if bc.ImageArea, err = c.ReadByte(); err != nil {
		return err
	}
	bc.Reserved, err = c.ReadUint32()
	return err
}

// Unmarshal decodes one 16 byte field record
func (f *FieldInfo) Unmarshal(c *utils.Cursor) error {
	var err error
	if f.TextPropertyID, err = c.ReadUint16(); err != nil {
		return err
	}
	b, err := c.ReadByte()
	if err != nil {
		return err
	}
	f.TextFormat = TextFormat(b)
	if b&^textFormatMask != 0 || f.TextFormat&(TextAlignCenter|TextAlignRight) == TextAlignCenter|TextAlignRight {
		return corrupted("field text format 0x%02X", b)
	}
	if b, err = c.ReadByte(); err != nil {
		return err
	}
	f.LabelFormat = LabelFormat(b)
	if b&^labelFormatMask != 0 || f.LabelFormat&(LabelLeft|LabelRight) == LabelLeft|LabelRight {
		return corrupted("field label format 0x%02X", b)
	}
	if f.FontSize, err = c.ReadByte(); err != nil {
		return err
	}
	if f.FontSize < bcMinFontSize || f.FontSize > bcMaxFontSize {
		return corrupted("field font size %d", f.FontSize)
	}
	if f.Reserved, err = c.ReadByte(); err != nil {
		return err
	}
	if f.LabelOffset, err = c.ReadUint16(); err != nil {
		return err
	}
	color, err := c.ReadUint32()
	if err != nil {
		return err
	}
	f.ValueFontColor = Color(color)
	if color, err = c.ReadUint32(); err != nil {
		return err
	}
	f.LabelFontColor = Color(color)
	return nil
}
