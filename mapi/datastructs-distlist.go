package mapi

import (
	"github.com/sensepost/mapidecode/utils"
)

// DistListStreamInfo is the PidLidDistributionListStream value of a
// personal distribution list
type DistListStreamInfo struct {
	StreamVersion  uint16 //0x0001
	Reserved       uint16
	BuildVersion   uint32 //build of the client that wrote the stream
	Flags          uint32
	CountOfEntries uint32
	Members        []DistListMemberInfo
	ExtraInfoSize  uint32 //MUST be 0
	Reserved2      uint32 //MUST be 0
}

// DistListMemberInfo is a single member of the stream
type DistListMemberInfo struct {
	EntryIDSize         uint32
	EntryID             EntryID
	OneOffEntryIDSize   uint32
	OneOffEntryID       *OneOffEntryID `yaml:",omitempty"` //nil when OneOffEntryIDSize is 0
	ExtraMemberInfoSize uint32         //MUST be 0
}

// ParseDistListStream decodes a whole PidLidDistributionListStream value
func ParseDistListStream(buf []byte) (*DistListStreamInfo, error) {
	c := utils.NewCursor(buf)
	dl, err := DecodeDistListStream(c)
	if err != nil {
		return nil, err
	}
	if err = c.Done(); err != nil {
		return nil, err
	}
	return dl, nil
}

// DecodeDistListStream decodes a distribution list stream at the cursor
func DecodeDistListStream(c *utils.Cursor) (*DistListStreamInfo, error) {
	dl := &DistListStreamInfo{}
	var err error
	if dl.StreamVersion, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if dl.StreamVersion != dlStreamVersion {
		return nil, corrupted("distribution list stream version %d", dl.StreamVersion)
	}
	if dl.Reserved, err = c.ReadUint16(); err != nil {
		return nil, err
	}
	if dl.BuildVersion, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if dl.Flags, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if dl.CountOfEntries, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	// every member needs at least its three size fields, and the trailer
	// still has to fit after them
	if err = c.CheckCount(uint64(dl.CountOfEntries)*dlMemberFixedSize+dlTrailerSize, 1); err != nil {
		return nil, err
	}
	dl.Members = make([]DistListMemberInfo, dl.CountOfEntries)
	for k := range dl.Members {
		if err = dl.Members[k].Unmarshal(c); err != nil {
			return nil, err
		}
	}
	if dl.ExtraInfoSize, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if dl.ExtraInfoSize != 0 {
		return nil, corrupted("distribution list extra info size must be zero, got %d", dl.ExtraInfoSize)
	}
	if dl.Reserved2, err = c.ReadUint32(); err != nil {
		return nil, err
	}
	if dl.Reserved2 != 0 {
		return nil, corrupted("distribution list reserved field must be zero, got 0x%X", dl.Reserved2)
	}
	return dl, nil
}

// Unmarshal decodes one member record
func (m *DistListMemberInfo) Unmarshal(c *utils.Cursor) error {
	var err error
	if m.EntryIDSize, err = c.ReadUint32(); err != nil {
		return err
	}
	if err = c.CheckCount(uint64(m.EntryIDSize), 1); err != nil {
		return err
	}
	if m.EntryID, err = DecodeEntryID(c, int(m.EntryIDSize)); err != nil {
		return err
	}
	if m.OneOffEntryIDSize, err = c.ReadUint32(); err != nil {
		return err
	}
	if m.OneOffEntryIDSize != 0 {
		if err = c.CheckCount(uint64(m.OneOffEntryIDSize), 1); err != nil {
			return err
		}
		if m.OneOffEntryID, err = DecodeOneOffEntryID(c, int(m.OneOffEntryIDSize)); err != nil {
			return err
		}
	}
	if m.ExtraMemberInfoSize, err = c.ReadUint32(); err != nil {
		return err
	}
	if m.ExtraMemberInfoSize != 0 {
		return corrupted("distribution list member extra info size must be zero, got %d", m.ExtraMemberInfoSize)
	}
	return nil
}
