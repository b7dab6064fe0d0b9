package mapi

import (
	"github.com/sensepost/mapidecode/utils"
)

// ControlType is the kind of dialog control a TRow describes
type ControlType uint32

//Control types -- [MS-OXOABKT]
const (
	ControlLabel                      ControlType = 0x00
	ControlTextBox                    ControlType = 0x01
	ControlListBox                    ControlType = 0x02
	ControlComboBox                   ControlType = 0x03
	ControlDropDownListBox            ControlType = 0x04
	ControlCheckBox                   ControlType = 0x05
	ControlGroupBox                   ControlType = 0x06
	ControlButton                     ControlType = 0x07
	ControlTabPage                    ControlType = 0x08
	ControlMultiValuedListBox         ControlType = 0x0B
	ControlMultiValuedDropDownListBox ControlType = 0x0C
)

var controlTypeNames = map[ControlType]string{
	ControlLabel:                      "Label",
	ControlTextBox:                    "TextBox",
	ControlListBox:                    "ListBox",
	ControlComboBox:                   "ComboBox",
	ControlDropDownListBox:            "DropDownListBox",
	ControlCheckBox:                   "CheckBox",
	ControlGroupBox:                   "GroupBox",
	ControlButton:                     "Button",
	ControlTabPage:                    "TabPage",
	ControlMultiValuedListBox:         "MultiValuedListBox",
	ControlMultiValuedDropDownListBox: "MultiValuedDropDownListBox",
}

func (t ControlType) String() string {
	if name, ok := controlTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether t is one of the defined control types
func (t ControlType) Valid() bool {
	_, ok := controlTypeNames[t]
	return ok
}

// HasString reports whether the control's CNTRL points at a pool string:
// a caption, or the character filter of an editable control
func (t ControlType) HasString() bool {
	switch t {
	case ControlLabel, ControlTextBox, ControlComboBox, ControlCheckBox,
		ControlGroupBox, ControlButton, ControlTabPage:
		return true
	}
	return false
}

// MarshalYAML renders the control type by name
func (t ControlType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// ControlFlags is the TRow control flags bit field
type ControlFlags uint32

//Control flags
const (
	ControlFlagMultiline    ControlFlags = 0x01
	ControlFlagEditable     ControlFlags = 0x02
	ControlFlagRequired     ControlFlags = 0x04
	ControlFlagSetImmediate ControlFlags = 0x08
	ControlFlagPassword     ControlFlags = 0x10
	ControlFlagDoubleByte   ControlFlags = 0x20
	ControlFlagIndex        ControlFlags = 0x40
	controlFlagsMask                     = 0x7F
)

// Has reports whether every bit of f is set
func (cf ControlFlags) Has(f ControlFlags) bool {
	return cf&f == f
}

// TRowSet is a dialog template: a row per control plus the string pool the
// rows point into. Offsets are relative to the Type field.
type TRowSet struct {
	Type  uint32
	Count uint32
	Rows  []TRow
}

// TRow describes the position and behaviour of a single control
type TRow struct {
	XPos             uint32
	DeltaX           uint32
	YPos             uint32
	DeltaY           uint32
	ControlType      ControlType
	ControlFlags     ControlFlags
	ControlStructure CNTRL
}

// CNTRL ties a control to a property and to its pool string
type CNTRL struct {
	Type         uint32 // dwType, the property tag for bound controls
	Size         uint32 // ulSize, maximum length of editable controls
	StringOffset uint32 // ulString
	String       string `yaml:",omitempty"`
}

// ParseRowSet decodes a whole PidTagTemplateData value
func ParseRowSet(buf []byte, unicode bool) (*TRowSet, error) {
	return DecodeRowSet(utils.NewCursor(buf), unicode)
}

// DecodeRowSet decodes a TRowSet starting at the cursor. The cursor ends up
// just past the last row, wherever the string pool happens to be.
func DecodeRowSet(c *utils.Cursor, unicode bool) (*TRowSet, error) {
	base := c.Pos()
	rs := &TRowSet{}
	var err error
	if rs.Type, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if rs.Type != rowSetType {
		return nil, corrupted("trowset type %d", rs.Type)
	}
	if rs.Count, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if err = c.CheckCount(uint64(rs.Count), tRowSize); err != nil {
		return nil, err
	}
	rs.Rows = make([]TRow, rs.Count)
	for k := range rs.Rows {
		if err = rs.Rows[k].Unmarshal(c, base, unicode); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Unmarshal decodes one fixed size row. base is the position of the owning
// TRowSet, which the control's string offset is relative to.
func (row *TRow) Unmarshal(c *utils.Cursor, base int, unicode bool) error {
	var err error
	if row.XPos, err = c.ReadUint32(); err != nil {
		return err
	}
	if row.DeltaX, err = c.ReadUint32(); err != nil {
		return err
	}
	if row.YPos, err = c.ReadUint32(); err != nil {
		return err
	}
	if row.DeltaY, err = c.ReadUint32(); err != nil {
		return err
	}
	ct, err := c.ReadUint32()
	if err != nil {
		return err
	}
	row.ControlType = ControlType(ct)
	if !row.ControlType.Valid() {
		return corrupted("trow control type 0x%X", ct)
	}
	flags, err := c.ReadUint32()
	if err != nil {
		return err
	}
	if flags&^controlFlagsMask != 0 {
		return corrupted("trow control flags 0x%X", flags)
	}
	row.ControlFlags = ControlFlags(flags)
	if err = row.ControlStructure.Unmarshal(c); err != nil {
		return err
	}
	if row.ControlType.HasString() {
		if row.ControlStructure.String, err = row.ControlStructure.ResolveString(c, base, unicode); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal decodes the three CNTRL fields. The pool string is left alone.
func (cntrl *CNTRL) Unmarshal(c *utils.Cursor) error {
	var err error
	if cntrl.Type, err = c.ReadUint32(); err != nil {
		return err
	}
	if cntrl.Size, err = c.ReadUint32(); err != nil {
		return err
	}
	cntrl.StringOffset, err = c.ReadUint32()
	return err
}

// ResolveString reads the pool string at base+StringOffset. The cursor is
// back where it started when this returns, whether or not the read worked.
func (cntrl *CNTRL) ResolveString(c *utils.Cursor, base int, unicode bool) (string, error) {
	saved := c.Pos()
	defer c.Seek(saved)

	target := uint64(base) + uint64(cntrl.StringOffset)
	if target > uint64(c.Len()) {
		return "", corrupted("cntrl string offset 0x%X past end of template", cntrl.StringOffset)
	}
	if err := c.Seek(int(target)); err != nil {
		return "", err
	}
	return c.ReadString(unicode)
}
