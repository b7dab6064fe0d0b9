package mapi

import (
	"encoding/binary"
	"fmt"

	"github.com/sensepost/mapidecode/utils"
)

// Reference encoders for the decoders in this package. They only exist to
// build fixtures.

var testStoreUID = MustParseGUID("0F3A7E12-1B2C-4D5E-8F90-A1B2C3D4E5F6")
var testDatabaseGUID = MustParseGUID("5D1C6A2B-3E4F-4A5B-9C8D-7E6F5A4B3C2D")

func str(s string, unicode bool) []byte {
	if unicode {
		return utils.UniString(s)
	}
	return utils.ASCIIString(s)
}

func encodeEntryID(id EntryID) []byte {
	switch e := id.(type) {
	case *OneOffEntryID:
		return utils.BodyToBytes(struct {
			Flags         uint32
			Provider      GUID
			Version       uint16
			EncodingFlags uint16
			DisplayName   []byte
			AddressType   []byte
			EmailAddress  []byte
		}{e.Flags, OneOffProviderUID, e.Version, e.EncodingFlags,
			str(e.DisplayName, e.Unicode()), str(e.AddressType, e.Unicode()), str(e.EmailAddress, e.Unicode())})
	case *AddressBookEntryID:
		return utils.BodyToBytes(struct {
			Flags       uint32
			Provider    GUID
			Version     uint32
			DisplayType uint32
			X500DN      []byte
		}{e.Flags, AddressBookProviderUID, e.Version, e.DisplayType, utils.ASCIIString(e.X500DN)})
	case *FolderEntryID:
		return utils.BodyToBytes(struct {
			Flags         uint32
			Provider      GUID
			FolderType    uint16
			DatabaseGUID  GUID
			GlobalCounter GlobalCounter
			Pad           uint16
		}{e.Flags, e.ProviderUID, e.FolderType, e.DatabaseGUID, e.GlobalCounter, 0})
	case *MessageEntryID:
		return utils.BodyToBytes(struct {
			Flags                uint32
			Provider             GUID
			MessageType          uint16
			FolderDatabaseGUID   GUID
			FolderGlobalCounter  GlobalCounter
			FolderPad            uint16
			MessageDatabaseGUID  GUID
			MessageGlobalCounter GlobalCounter
			MessagePad           uint16
		}{e.Flags, e.ProviderUID, e.MessageType, e.FolderDatabaseGUID, e.FolderGlobalCounter, 0,
			e.MessageDatabaseGUID, e.MessageGlobalCounter, 0})
	case *GenericEntryID:
		return utils.BodyToBytes(struct {
			Flags        uint32
			Provider     GUID
			ProviderData []byte
		}{e.Flags, e.ProviderUID, e.ProviderData})
	case *WrappedEntryID:
		return utils.BodyToBytes(struct {
			Flags    uint32
			Provider GUID
			Type     uint8
			Embedded []byte
		}{e.Flags, WrappedProviderUID, e.Type, encodeEntryID(e.Embedded)})
	}
	panic(fmt.Sprintf("unexpected entryid %T", id))
}

func testOneOff(unicode bool) *OneOffEntryID {
	e := &OneOffEntryID{
		EncodingFlags: OneOffNoRichInfo,
		DisplayName:   "Jane Doe",
		AddressType:   "SMTP",
		EmailAddress:  "jane.doe@example.com",
	}
	if unicode {
		e.EncodingFlags |= OneOffUnicode
		e.DisplayName = "Jäne Døe"
	}
	return e
}

func testAddressBook() *AddressBookEntryID {
	return &AddressBookEntryID{
		Version:     1,
		DisplayType: DTMailUser,
		X500DN:      "/o=Example/ou=Exchange Administrative Group (FYDIBOHF23SPDLT)/cn=Recipients/cn=jdoe",
	}
}

func testFolder() *FolderEntryID {
	return &FolderEntryID{
		ProviderUID:   testStoreUID,
		FolderType:    EitLTPrivateFolder,
		DatabaseGUID:  testDatabaseGUID,
		GlobalCounter: GlobalCounter{0x00, 0x00, 0x00, 0x01, 0x02, 0x03},
	}
}

func testMessage() *MessageEntryID {
	return &MessageEntryID{
		ProviderUID:          testStoreUID,
		MessageType:          EitLTPrivateMessage,
		FolderDatabaseGUID:   testDatabaseGUID,
		FolderGlobalCounter:  GlobalCounter{0x00, 0x00, 0x00, 0x01, 0x02, 0x03},
		MessageDatabaseGUID:  testDatabaseGUID,
		MessageGlobalCounter: GlobalCounter{0x00, 0x00, 0x00, 0x0A, 0x0B, 0x0C},
	}
}

// encodeRowSet lays the rows out after the header and appends one pool
// string per string-bearing control, filling in StringOffset. It returns the
// encoding and the TRowSet the decoder should produce from it.
func encodeRowSet(rows []TRow, strs []string, unicode bool) ([]byte, *TRowSet) {
	want := &TRowSet{Type: rowSetType, Count: uint32(len(rows)), Rows: make([]TRow, len(rows))}
	var pool []byte
	poolStart := rowSetHdrSize + tRowSize*len(rows)
	for k, row := range rows {
		if row.ControlType.HasString() {
			row.ControlStructure.StringOffset = uint32(poolStart + len(pool))
			row.ControlStructure.String = strs[k]
			pool = append(pool, str(strs[k], unicode)...)
		}
		want.Rows[k] = row
	}
	return append(encodeRows(rowSetType, want.Rows), pool...), want
}

// encodeRows writes the header and fixed size rows only
func encodeRows(typ uint32, rows []TRow) []byte {
	buf := utils.EncodeNum(typ)
	buf = append(buf, utils.EncodeNum(uint32(len(rows)))...)
	for _, row := range rows {
		buf = append(buf, utils.BodyToBytes(struct {
			XPos, DeltaX, YPos, DeltaY uint32
			ControlType                uint32
			ControlFlags               uint32
			Type, Size, StringOffset   uint32
		}{row.XPos, row.DeltaX, row.YPos, row.DeltaY, uint32(row.ControlType), uint32(row.ControlFlags),
			row.ControlStructure.Type, row.ControlStructure.Size, row.ControlStructure.StringOffset})...)
	}
	return buf
}

func encodeDistList(dl *DistListStreamInfo) []byte {
	buf := utils.BodyToBytes(struct {
		StreamVersion  uint16
		Reserved       uint16
		BuildVersion   uint32
		Flags          uint32
		CountOfEntries uint32
	}{dl.StreamVersion, dl.Reserved, dl.BuildVersion, dl.Flags, dl.CountOfEntries})
	for _, m := range dl.Members {
		buf = append(buf, encodeDistListMember(m)...)
	}
	buf = append(buf, utils.EncodeNum(dl.ExtraInfoSize)...)
	return append(buf, utils.EncodeNum(dl.Reserved2)...)
}

func encodeDistListMember(m DistListMemberInfo) []byte {
	var oneOff []byte
	if m.OneOffEntryID != nil {
		oneOff = encodeEntryID(m.OneOffEntryID)
	}
	return utils.BodyToBytes(struct {
		EntryIDSize         uint32
		EntryID             []byte
		OneOffEntryIDSize   uint32
		OneOffEntryID       []byte
		ExtraMemberInfoSize uint32
	}{m.EntryIDSize, encodeEntryID(m.EntryID), m.OneOffEntryIDSize, oneOff, m.ExtraMemberInfoSize})
}

// testMember builds a member with consistent sizes
func testMember(id EntryID, oneOff *OneOffEntryID) DistListMemberInfo {
	m := DistListMemberInfo{
		EntryIDSize: uint32(len(encodeEntryID(id))),
		EntryID:     id,
	}
	if oneOff != nil {
		m.OneOffEntryIDSize = uint32(len(encodeEntryID(oneOff)))
		m.OneOffEntryID = oneOff
	}
	return m
}

func encodeBusinessCard(bc *BusinessCardDisplayDefinition) []byte {
	buf := utils.BodyToBytes(struct {
		MajorVersion    uint8
		MinorVersion    uint8
		TemplateID      uint8
		CountOfFields   uint8
		FieldInfoSize   uint8
		ExtraInfoSize   uint8
		ImageAlignment  uint8
		ImageSource     uint8
		BackgroundColor uint32
		ImageArea       uint8
		Reserved        uint32
	}{bc.MajorVersion, bc.MinorVersion, uint8(bc.TemplateID), bc.CountOfFields, bc.FieldInfoSize,
		bc.ExtraInfoSize, uint8(bc.ImageAlignment), uint8(bc.ImageSource), uint32(bc.BackgroundColor),
		bc.ImageArea, bc.Reserved})
	for _, f := range bc.Fields {
		buf = append(buf, utils.BodyToBytes(struct {
			TextPropertyID uint16
			TextFormat     uint8
			LabelFormat    uint8
			FontSize       uint8
			Reserved       uint8
			LabelOffset    uint16
			ValueFontColor uint32
			LabelFontColor uint32
		}{f.TextPropertyID, uint8(f.TextFormat), uint8(f.LabelFormat), f.FontSize, f.Reserved,
			f.LabelOffset, uint32(f.ValueFontColor), uint32(f.LabelFontColor)})...)
	}
	for _, s := range bc.ExtraInfo {
		buf = append(buf, utils.UniString(s)...)
	}
	return buf
}

// testBusinessCard returns a card with two labelled fields and one without
func testBusinessCard() *BusinessCardDisplayDefinition {
	pool := []string{"Name", "Company"}
	bc := &BusinessCardDisplayDefinition{
		MajorVersion:    3,
		MinorVersion:    0,
		TemplateID:      TemplateImageLeft,
		CountOfFields:   3,
		FieldInfoSize:   bcFieldInfoSize,
		ImageAlignment:  ImageTopLeft,
		ImageSource:     ImageSourceContactPhoto,
		BackgroundColor: Color(0x00FFFFFF),
		ImageArea:       33,
		ExtraInfo:       pool,
	}
	bc.ExtraInfoSize = uint8(poolSize(pool))
	bc.Fields = []FieldInfo{
		{TextPropertyID: 0x8005, TextFormat: TextBold, LabelFormat: LabelLeft, FontSize: 12,
			LabelOffset: 0, ValueFontColor: 0x000000, LabelFontColor: 0x808080, Label: "Name"},
		{TextPropertyID: 0x3A16, TextFormat: TextAlignCenter | TextItalic, LabelFormat: LabelRight | LabelUnderline, FontSize: 9,
			LabelOffset: uint16(len(utils.UniString("Name"))), ValueFontColor: 0x0000FF, LabelFontColor: 0x00FF00, Label: "Company"},
		{TextPropertyID: 0x8083, TextFormat: TextMultiline, FontSize: 8, LabelOffset: NoLabel},
	}
	return bc
}

func poolSize(strs []string) int {
	n := 0
	for _, s := range strs {
		n += len(utils.UniString(s))
	}
	return n
}

func putUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}
