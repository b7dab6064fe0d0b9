package mapi

import (
	"github.com/pkg/errors"
	"github.com/sensepost/mapidecode/utils"
)

// ErrPropertyNotFound is returned when the store holds no value for a property
var ErrPropertyNotFound = errors.New("property not found")

// PropertyStore supplies raw property values. How they are found or cached is
// up to the implementation.
type PropertyStore interface {
	GetProperty(tag PropertyTag) ([]byte, bool)
	GetNamedProperty(prop NamedProperty) ([]byte, bool)
	GetMultipleNamedProperty(prop NamedProperty) ([][]byte, bool)
}

// PropertyBag is an in-memory PropertyStore
type PropertyBag struct {
	tagged     map[PropertyTag][]byte
	named      map[namedKey][]byte
	namedMulti map[namedKey][][]byte
}

type namedKey struct {
	set GUID
	lid uint32
}

// NewPropertyBag returns an empty bag
func NewPropertyBag() *PropertyBag {
	return &PropertyBag{
		tagged:     map[PropertyTag][]byte{},
		named:      map[namedKey][]byte{},
		namedMulti: map[namedKey][][]byte{},
	}
}

// SetProperty stores a tagged value
func (bag *PropertyBag) SetProperty(tag PropertyTag, value []byte) {
	bag.tagged[tag] = value
}

// SetNamedProperty stores a single valued named property
func (bag *PropertyBag) SetNamedProperty(prop NamedProperty, value []byte) {
	bag.named[namedKey{prop.PropertySet, prop.LID}] = value
}

// SetMultipleNamedProperty stores a multi-valued named property
func (bag *PropertyBag) SetMultipleNamedProperty(prop NamedProperty, values [][]byte) {
	bag.namedMulti[namedKey{prop.PropertySet, prop.LID}] = values
}

// GetProperty implements PropertyStore
func (bag *PropertyBag) GetProperty(tag PropertyTag) ([]byte, bool) {
	v, ok := bag.tagged[tag]
	return v, ok
}

// GetNamedProperty implements PropertyStore
func (bag *PropertyBag) GetNamedProperty(prop NamedProperty) ([]byte, bool) {
	v, ok := bag.named[namedKey{prop.PropertySet, prop.LID}]
	return v, ok
}

// GetMultipleNamedProperty implements PropertyStore
func (bag *PropertyBag) GetMultipleNamedProperty(prop NamedProperty) ([][]byte, bool) {
	v, ok := bag.namedMulti[namedKey{prop.PropertySet, prop.LID}]
	return v, ok
}

// LoadPropertyBag builds a bag from a property dump, as found in the config file
func LoadPropertyBag(dump []utils.PropertyDump) (*PropertyBag, error) {
	bag := NewPropertyBag()
	for k, p := range dump {
		if !p.Named() {
			value, err := utils.DecodeHex(p.Hex)
			if err != nil {
				return nil, errors.Wrapf(err, "property %d (tag 0x%08X)", k, p.Tag)
			}
			bag.SetProperty(TagFromUint32(p.Tag), value)
			continue
		}
		set, err := ParseGUID(p.Set)
		if err != nil {
			return nil, errors.Wrapf(err, "property %d set %q", k, p.Set)
		}
		if p.Values != nil {
			values := make([][]byte, len(p.Values))
			for i, v := range p.Values {
				if values[i], err = utils.DecodeHex(v); err != nil {
					return nil, errors.Wrapf(err, "property %d value %d", k, i)
				}
			}
			bag.SetMultipleNamedProperty(NamedProperty{PropertySet: set, LID: p.LID, PropertyType: PtypMultipleBinary}, values)
			continue
		}
		value, err := utils.DecodeHex(p.Hex)
		if err != nil {
			return nil, errors.Wrapf(err, "property %d (lid 0x%04X)", k, p.LID)
		}
		bag.SetNamedProperty(NamedProperty{PropertySet: set, LID: p.LID, PropertyType: PtypBinary}, value)
	}
	return bag, nil
}

// EntryIDProperty decodes a PtypBinary EntryID property such as PidTagEntryID
func EntryIDProperty(store PropertyStore, tag PropertyTag) (EntryID, error) {
	value, ok := store.GetProperty(tag)
	if !ok {
		return nil, errors.Wrapf(ErrPropertyNotFound, "%s", tag)
	}
	id, err := ParseEntryID(value)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", tag)
	}
	return id, nil
}

// TemplateData decodes PidTagTemplateData
func TemplateData(store PropertyStore, unicode bool) (*TRowSet, error) {
	value, ok := store.GetProperty(PidTagTemplateData)
	if !ok {
		return nil, errors.Wrap(ErrPropertyNotFound, "PidTagTemplateData")
	}
	rs, err := ParseRowSet(value, unicode)
	if err != nil {
		return nil, errors.Wrap(err, "PidTagTemplateData")
	}
	return rs, nil
}

// DistributionListStream decodes PidLidDistributionListStream
func DistributionListStream(store PropertyStore) (*DistListStreamInfo, error) {
	value, ok := store.GetNamedProperty(PidLidDistributionListStream)
	if !ok {
		return nil, errors.Wrap(ErrPropertyNotFound, "PidLidDistributionListStream")
	}
	dl, err := ParseDistListStream(value)
	if err != nil {
		return nil, errors.Wrap(err, "PidLidDistributionListStream")
	}
	return dl, nil
}

// DistributionListMembers decodes every wrapped EntryID in
// PidLidDistributionListMembers
func DistributionListMembers(store PropertyStore) ([]*WrappedEntryID, error) {
	values, ok := store.GetMultipleNamedProperty(PidLidDistributionListMembers)
	if !ok {
		return nil, errors.Wrap(ErrPropertyNotFound, "PidLidDistributionListMembers")
	}
	members := make([]*WrappedEntryID, len(values))
	for k, v := range values {
		w, err := ParseWrappedEntryID(v)
		if err != nil {
			return nil, errors.Wrapf(err, "PidLidDistributionListMembers[%d]", k)
		}
		members[k] = w
	}
	return members, nil
}

// DistributionListOneOffMembers decodes every one-off EntryID in
// PidLidDistributionListOneOffMembers
func DistributionListOneOffMembers(store PropertyStore) ([]*OneOffEntryID, error) {
	values, ok := store.GetMultipleNamedProperty(PidLidDistributionListOneOffMembers)
	if !ok {
		return nil, errors.Wrap(ErrPropertyNotFound, "PidLidDistributionListOneOffMembers")
	}
	members := make([]*OneOffEntryID, len(values))
	for k, v := range values {
		o, err := ParseOneOffEntryID(v)
		if err != nil {
			return nil, errors.Wrapf(err, "PidLidDistributionListOneOffMembers[%d]", k)
		}
		members[k] = o
	}
	return members, nil
}

// BusinessCard decodes PidLidBusinessCardDisplayDefinition
func BusinessCard(store PropertyStore) (*BusinessCardDisplayDefinition, error) {
	value, ok := store.GetNamedProperty(PidLidBusinessCardDisplayDefinition)
	if !ok {
		return nil, errors.Wrap(ErrPropertyNotFound, "PidLidBusinessCardDisplayDefinition")
	}
	bc, err := ParseBusinessCard(value)
	if err != nil {
		return nil, errors.Wrap(err, "PidLidBusinessCardDisplayDefinition")
	}
	return bc, nil
}

// Optional turns a failed or missing optional property into "absent".
// Decode failures are logged at trace level and otherwise dropped.
func Optional[T any](v T, err error) (T, bool) {
	if err != nil {
		if !errors.Is(err, ErrPropertyNotFound) {
			utils.Trace.Printf("ignoring optional property: %s\n", err)
		}
		var zero T
		return zero, false
	}
	return v, true
}
