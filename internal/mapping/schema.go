package mapping

// MappingFile represents the root of a YAML profile file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Name of the profile built from this file.
	Name string `yaml:"name,omitempty"`

	// TypeMappings is a list of type pair mappings.
	TypeMappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type name (e.g., "store.User" or "automapper/store.User").
	Source string `yaml:"source"`

	// Target type name.
	Target string `yaml:"target"`

	// OneToOne is a shorthand where keys are source members and values are
	// target members.
	// Example: { "EMail": "Contact" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit member rules.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Ignore lists target members that are never populated.
	Ignore []string `yaml:"ignore,omitempty"`

	// Converter names a registered whole object function replacing the member rules.
	Converter string `yaml:"converter,omitempty"`
}

// FieldMapping is one explicit rule for a target member: either a source path
// or the name of a registered resolver function.
type FieldMapping struct {
	Target   string `yaml:"target"`
	Source   string `yaml:"source,omitempty"`
	Resolver string `yaml:"resolver,omitempty"`
}

// Pair renders the type pair of the mapping for diagnostics.
func (tm *TypeMapping) Pair() string {
	return tm.Source + " -> " + tm.Target
}
