package mapi

//Property Data types
const (
	PtypInteger16      = 0x0002
	PtypInteger32      = 0x0003
	PtypInteger64      = 0x0014
	PtypFloating32     = 0x0004
	PtypFloating64     = 0x0005
	PtypBoolean        = 0x000B
	PtypString         = 0x001F
	PtypString8        = 0x001E
	PtypGUID           = 0x0048
	PtypBinary         = 0x0102
	PtypMultipleBinary = 0x1102
	PtypTime           = 0x0040
)

//-------- TAGS -------

//Find these in [MS-OXPROPS]

//PidTagTemplateData the dialog template (TRowSet) of an address book entry
var PidTagTemplateData = PropertyTag{PtypBinary, 0x0001}

//PidTagEntryID the EntryID of the object itself
var PidTagEntryID = PropertyTag{PtypBinary, 0x0FFF}

//PidTagParentEntryID the EntryID of the containing folder
var PidTagParentEntryID = PropertyTag{PtypBinary, 0x0E09}

//PidTagSentRepresentingEntryID the EntryID of the represented sender
var PidTagSentRepresentingEntryID = PropertyTag{PtypBinary, 0x0041}

//PidTagReceivedByEntryID the EntryID of the receiving mailbox owner
var PidTagReceivedByEntryID = PropertyTag{PtypBinary, 0x003F}

//PidTagSenderEntryID the EntryID of the sending mailbox owner
var PidTagSenderEntryID = PropertyTag{PtypBinary, 0x0C19}

//PSETIDAddress the property set holding contact and distribution list properties
var PSETIDAddress = MustParseGUID("00062004-0000-0000-C000-000000000046")

//PidLidBusinessCardDisplayDefinition the business card layout of a contact
var PidLidBusinessCardDisplayDefinition = NamedProperty{PSETIDAddress, 0x8040, PtypBinary}

//PidLidDistributionListOneOffMembers one-off EntryIDs of the list members
var PidLidDistributionListOneOffMembers = NamedProperty{PSETIDAddress, 0x8054, PtypMultipleBinary}

//PidLidDistributionListMembers wrapped EntryIDs of the list members
var PidLidDistributionListMembers = NamedProperty{PSETIDAddress, 0x8055, PtypMultipleBinary}

//PidLidDistributionListStream the member stream of a personal distribution list
var PidLidDistributionListStream = NamedProperty{PSETIDAddress, 0x8064, PtypBinary}

//Provider UIDs -- [MS-OXCDATA] and [MS-OXOCNTC]
var (
	OneOffProviderUID      = MustParseGUID("A41F2B81-A3BE-1910-9D6E-00DD010F5402")
	AddressBookProviderUID = MustParseGUID("C840A7DC-42C0-1A10-B4B9-08002B2FE182")
	WrappedProviderUID     = MustParseGUID("D3AD91C0-9D51-11CF-A4A9-00AA0047FAA4")
)

//Fixed EntryID sizes
const (
	folderEntryIDSize  = 46
	messageEntryIDSize = 70
	entryIDHeaderSize  = 20 // Flags + ProviderUID
)

//One-off EntryID encoding flags
const (
	OneOffUnicode     = 0x8000
	OneOffNoRichInfo  = 0x0001
	OneOffFormatMask  = 0x1E00
	OneOffMAEEncoding = 0x0C00
)

//Address book display types
const (
	DTMailUser        = 0x00000000
	DTDistList        = 0x00000001
	DTForum           = 0x00000002
	DTAgent           = 0x00000003
	DTOrganization    = 0x00000004
	DTPrivateDistList = 0x00000005
	DTRemoteMailUser  = 0x00000006
	DTContainer       = 0x00000100
	DTTemplate        = 0x00000101
	DTAddressTemplate = 0x00000102
	DTSearch          = 0x00000200
)

//Folder and message types in store EntryIDs
const (
	EitLTPrivateFolder      = 0x0001
	EitLTPublicFolder       = 0x0003
	EitLTWackyFolder        = 0x0005
	EitLTPrivateMessage     = 0x0007
	EitLTPublicMessage      = 0x0009
	EitLTWackyMessage       = 0x000B
	EitLTPublicFolderByName = 0x000C
)

//TRowSet
const (
	rowSetType    = 0x00000001
	rowSetHdrSize = 8
	tRowSize      = 36
)

//Business card
const (
	bcMinMajorVersion = 3
	bcFieldInfoSize   = 16
	bcHeaderSize      = 17
	bcMinFontSize     = 3
	bcMaxFontSize     = 32
	// NoLabel marks a FieldInfo without a label string
	NoLabel = 0xFFFE
)

//Distribution list stream
const (
	dlStreamVersion   = 0x0001
	dlHeaderSize      = 16
	dlTrailerSize     = 8
	dlMemberFixedSize = 12
)
