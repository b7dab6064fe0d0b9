package mapi

import (
	"github.com/sensepost/mapidecode/utils"
)

// EntryID is one of OneOffEntryID, AddressBookEntryID, FolderEntryID,
// MessageEntryID, GenericEntryID or WrappedEntryID. The set is closed; switch
// over the concrete types.
type EntryID interface {
	Provider() GUID
	entryID()
}

// OneOffEntryID addresses a recipient that has no address book entry
type OneOffEntryID struct {
	Flags         uint32
	Version       uint16
	EncodingFlags uint16
	DisplayName   string
	AddressType   string
	EmailAddress  string
}

// AddressBookEntryID addresses an entry in the Exchange address book
type AddressBookEntryID struct {
	Flags       uint32
	Version     uint32
	DisplayType uint32
	X500DN      string
}

// FolderEntryID addresses a folder in a message store
type FolderEntryID struct {
	Flags         uint32
	ProviderUID   GUID
	FolderType    uint16
	DatabaseGUID  GUID
	GlobalCounter GlobalCounter
}

// MessageEntryID addresses a message in a message store
type MessageEntryID struct {
	Flags                uint32
	ProviderUID          GUID
	MessageType          uint16
	FolderDatabaseGUID   GUID
	FolderGlobalCounter  GlobalCounter
	MessageDatabaseGUID  GUID
	MessageGlobalCounter GlobalCounter
}

// GenericEntryID is any other provider's EntryID, kept opaque
type GenericEntryID struct {
	Flags        uint32
	ProviderUID  GUID
	ProviderData []byte
}

// WrappedEntryID wraps another EntryID together with a type byte describing
// what the embedded identifier refers to
type WrappedEntryID struct {
	Flags    uint32
	Type     uint8
	Embedded EntryID
}

// WrappedEntryType is the low nibble of WrappedEntryID.Type
type WrappedEntryType uint8

//Wrapped EntryID types
const (
	WrappedOneOff          WrappedEntryType = 0x0
	WrappedContact         WrappedEntryType = 0x3
	WrappedPersonalDL      WrappedEntryType = 0x4
	WrappedGALMailUser     WrappedEntryType = 0x5
	WrappedGALDistList     WrappedEntryType = 0x6
	wrappedTypeMask                         = 0x0F
	wrappedEmailIndexMask                   = 0x70
	wrappedEmailIndexShift                  = 4
)

func (t WrappedEntryType) String() string {
	switch t {
	case WrappedOneOff:
		return "OneOff"
	case WrappedContact:
		return "Contact"
	case WrappedPersonalDL:
		return "PersonalDistributionList"
	case WrappedGALMailUser:
		return "GALMailUser"
	case WrappedGALDistList:
		return "GALDistributionList"
	}
	return "Unknown"
}

func (*OneOffEntryID) entryID()      {}
func (*AddressBookEntryID) entryID() {}
func (*FolderEntryID) entryID()      {}
func (*MessageEntryID) entryID()     {}
func (*GenericEntryID) entryID()     {}
func (*WrappedEntryID) entryID()     {}

// Provider returns the one-off provider UID
func (*OneOffEntryID) Provider() GUID { return OneOffProviderUID }

// Provider returns the address book provider UID
func (*AddressBookEntryID) Provider() GUID { return AddressBookProviderUID }

// Provider returns the store's provider UID
func (e *FolderEntryID) Provider() GUID { return e.ProviderUID }

// Provider returns the store's provider UID
func (e *MessageEntryID) Provider() GUID { return e.ProviderUID }

// Provider returns the provider UID found in the EntryID
func (e *GenericEntryID) Provider() GUID { return e.ProviderUID }

// Provider returns the wrapped EntryID provider UID
func (*WrappedEntryID) Provider() GUID { return WrappedProviderUID }

// Unicode reports whether the strings were stored as UTF-16
func (e OneOffEntryID) Unicode() bool {
	return e.EncodingFlags&OneOffUnicode != 0
}

// Kind returns the embedded EntryID type
func (e WrappedEntryID) Kind() WrappedEntryType {
	return WrappedEntryType(e.Type & wrappedTypeMask)
}

// EmailIndex returns which of a contact's email addresses is referenced
func (e WrappedEntryID) EmailIndex() int {
	return int(e.Type&wrappedEmailIndexMask) >> wrappedEmailIndexShift
}

// KindName returns a short name for the concrete type of an EntryID
func KindName(id EntryID) string {
	switch id.(type) {
	case *OneOffEntryID:
		return "OneOff"
	case *AddressBookEntryID:
		return "AddressBook"
	case *FolderEntryID:
		return "Folder"
	case *MessageEntryID:
		return "Message"
	case *GenericEntryID:
		return "Generic"
	case *WrappedEntryID:
		return "Wrapped"
	}
	return "Unknown"
}

// ParseEntryID decodes a whole buffer as an EntryID
func ParseEntryID(buf []byte) (EntryID, error) {
	return DecodeEntryID(utils.NewCursor(buf), len(buf))
}

// ParseWrappedEntryID decodes a whole buffer as a wrapped EntryID
func ParseWrappedEntryID(buf []byte) (*WrappedEntryID, error) {
	return DecodeWrappedEntryID(utils.NewCursor(buf), len(buf))
}

// ParseOneOffEntryID decodes a whole buffer as a one-off EntryID
func ParseOneOffEntryID(buf []byte) (*OneOffEntryID, error) {
	return DecodeOneOffEntryID(utils.NewCursor(buf), len(buf))
}

// DecodeEntryID consumes exactly size bytes and picks the variant from the
// provider UID. Store EntryIDs carry the mailbox's own UID, so those are told
// apart by size.
func DecodeEntryID(c *utils.Cursor, size int) (EntryID, error) {
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	if size < entryIDHeaderSize {
		return nil, corrupted("entryid of %d bytes is shorter than its header", size)
	}
	// peek at the provider, then rewind the private cursor
	if err := sub.Seek(4); err != nil {
		return nil, err
	}
	provider, err := readGUID(sub)
	if err != nil {
		return nil, err
	}
	if err := sub.Seek(0); err != nil {
		return nil, err
	}

	switch provider {
	case OneOffProviderUID:
		return asEntryID(DecodeOneOffEntryID(sub, size))
	case AddressBookProviderUID:
		return asEntryID(DecodeAddressBookEntryID(sub, size))
	case WrappedProviderUID:
		return asEntryID(DecodeWrappedEntryID(sub, size))
	}
	switch size {
	case folderEntryIDSize:
		return asEntryID(DecodeFolderEntryID(sub, size))
	case messageEntryIDSize:
		return asEntryID(DecodeMessageEntryID(sub, size))
	}
	return asEntryID(DecodeGenericEntryID(sub, size))
}

// asEntryID keeps a failed decode from turning into a non-nil interface
// holding a nil pointer
func asEntryID[T EntryID](e T, err error) (EntryID, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeWrappedEntryID consumes exactly size bytes as a wrapped EntryID.
// The embedded identifier is chosen by the low nibble of the type byte.
func DecodeWrappedEntryID(c *utils.Cursor, size int) (*WrappedEntryID, error) {
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	w := &WrappedEntryID{}
	if w.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if w.Flags != 0 {
		return nil, corrupted("wrapped entryid flags must be zero, got 0x%X", w.Flags)
	}
	provider, err := readGUID(sub)
	if err != nil {
		return nil, err
	}
	if provider != WrappedProviderUID {
		return nil, corrupted("wrapped entryid provider %s", provider)
	}
	if w.Type, err = sub.ReadByte(); err != nil {
		return nil, err
	}

	remaining := sub.Remaining()
	switch w.Kind() {
	case WrappedOneOff:
		w.Embedded, err = asEntryID(DecodeOneOffEntryID(sub, remaining))
	case WrappedContact:
		switch remaining {
		case folderEntryIDSize:
			w.Embedded, err = asEntryID(DecodeFolderEntryID(sub, remaining))
		case messageEntryIDSize:
			w.Embedded, err = asEntryID(DecodeMessageEntryID(sub, remaining))
		default:
			w.Embedded, err = asEntryID(DecodeGenericEntryID(sub, remaining))
		}
	case WrappedPersonalDL:
		w.Embedded, err = asEntryID(DecodeMessageEntryID(sub, remaining))
	case WrappedGALMailUser, WrappedGALDistList:
		w.Embedded, err = asEntryID(DecodeAddressBookEntryID(sub, remaining))
	default:
		return nil, corrupted("wrapped entryid type 0x%02X", w.Type)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DecodeOneOffEntryID consumes exactly size bytes as a one-off EntryID
func DecodeOneOffEntryID(c *utils.Cursor, size int) (*OneOffEntryID, error) {
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	e := &OneOffEntryID{}
	if e.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if err = expectProvider(sub, OneOffProviderUID, "one-off"); err != nil {
		return nil, err
	}
	if e.Version, err = sub.ReadUint16(); err != nil {
		return nil, err
	}
	if e.Version != 0 {
		return nil, corrupted("one-off entryid version %d", e.Version)
	}
	if e.EncodingFlags, err = sub.ReadUint16(); err != nil {
		return nil, err
	}
	unicode := e.Unicode()
	if e.DisplayName, err = sub.ReadString(unicode); err != nil {
		return nil, err
	}
	if e.AddressType, err = sub.ReadString(unicode); err != nil {
		return nil, err
	}
	if e.EmailAddress, err = sub.ReadString(unicode); err != nil {
		return nil, err
	}
	if err = sub.Done(); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeAddressBookEntryID consumes exactly size bytes as an address book EntryID
func DecodeAddressBookEntryID(c *utils.Cursor, size int) (*AddressBookEntryID, error) {
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	e := &AddressBookEntryID{}
	if e.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if err = expectProvider(sub, AddressBookProviderUID, "address book"); err != nil {
		return nil, err
	}
	if e.Version, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if e.Version != 1 {
		return nil, corrupted("address book entryid version %d", e.Version)
	}
	if e.DisplayType, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if e.X500DN, err = sub.ReadASCIIString(); err != nil {
		return nil, err
	}
	if err = sub.Done(); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeFolderEntryID consumes exactly size bytes as a folder EntryID.
// Folder EntryIDs are always 46 bytes.
func DecodeFolderEntryID(c *utils.Cursor, size int) (*FolderEntryID, error) {
	if size != folderEntryIDSize {
		return nil, corrupted("folder entryid of %d bytes, want %d", size, folderEntryIDSize)
	}
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	e := &FolderEntryID{}
	if e.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if e.ProviderUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.FolderType, err = sub.ReadUint16(); err != nil {
		return nil, err
	}
	if e.DatabaseGUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.GlobalCounter, err = readGlobalCounter(sub); err != nil {
		return nil, err
	}
	if err = mustBeZero(sub, 2, "folder entryid pad"); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeMessageEntryID consumes exactly size bytes as a message EntryID.
// Message EntryIDs are always 70 bytes.
func DecodeMessageEntryID(c *utils.Cursor, size int) (*MessageEntryID, error) {
	if size != messageEntryIDSize {
		return nil, corrupted("message entryid of %d bytes, want %d", size, messageEntryIDSize)
	}
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	e := &MessageEntryID{}
	if e.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if e.ProviderUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.MessageType, err = sub.ReadUint16(); err != nil {
		return nil, err
	}
	if e.FolderDatabaseGUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.FolderGlobalCounter, err = readGlobalCounter(sub); err != nil {
		return nil, err
	}
	if err = mustBeZero(sub, 2, "message entryid folder pad"); err != nil {
		return nil, err
	}
	if e.MessageDatabaseGUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.MessageGlobalCounter, err = readGlobalCounter(sub); err != nil {
		return nil, err
	}
	if err = mustBeZero(sub, 2, "message entryid message pad"); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeGenericEntryID consumes exactly size bytes, keeping everything after
// the provider UID as opaque provider data
func DecodeGenericEntryID(c *utils.Cursor, size int) (*GenericEntryID, error) {
	sub, err := c.Sub(size)
	if err != nil {
		return nil, err
	}
	e := &GenericEntryID{}
	if e.Flags, err = sub.ReadUint32(); err != nil {
		return nil, err
	}
	if e.ProviderUID, err = readGUID(sub); err != nil {
		return nil, err
	}
	if e.ProviderData, err = sub.ReadBytes(sub.Remaining()); err != nil {
		return nil, err
	}
	return e, nil
}

func expectProvider(c *utils.Cursor, want GUID, name string) error {
	got, err := readGUID(c)
	if err != nil {
		return err
	}
	if got != want {
		return corrupted("%s entryid provider %s", name, got)
	}
	return nil
}
