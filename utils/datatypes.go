package utils

// YamlConfig holds the config file used by the command line tool.
// Flags supplied on the command line override these values.
type YamlConfig struct {
	UnicodeTemplates bool           `yaml:"unicode_templates"`
	Output           string         `yaml:"output"`
	Properties       []PropertyDump `yaml:"properties"`
}

// PropertyDump is one raw property value exported from a property store.
// Either Tag is set, or Set and LID identify a named property. Multi-valued
// binary properties use Values instead of Hex.
type PropertyDump struct {
	Tag    uint32   `yaml:"tag,omitempty"`
	Set    string   `yaml:"set,omitempty"`
	LID    uint32   `yaml:"lid,omitempty"`
	Hex    string   `yaml:"hex,omitempty"`
	Values []string `yaml:"values,omitempty"`
}

// Named reports whether the dump refers to a named property
func (p PropertyDump) Named() bool {
	return p.Set != ""
}
