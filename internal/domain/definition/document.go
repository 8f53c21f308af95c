// Package definition loads declarative stepper definitions from YAML or TOML
// files and compiles them into stepper definitions.
package definition

// SupportedAPIVersion is the apiVersion major this build reads.
const SupportedAPIVersion = "v1"

// Document is the raw definition file.
type Document struct {
	APIVersion  string      `yaml:"apiVersion" toml:"apiVersion"`
	Name        string      `yaml:"name" toml:"name"`
	Description string      `yaml:"description,omitempty" toml:"description,omitempty"`
	Mode        string      `yaml:"mode,omitempty" toml:"mode,omitempty"`
	InitialStep string      `yaml:"initialStep,omitempty" toml:"initialStep,omitempty"`
	MaxHistory  int         `yaml:"maxHistory,omitempty" toml:"maxHistory,omitempty"`
	Persist     PersistSpec `yaml:"persist,omitempty" toml:"persist,omitempty"`
	Steps       []StepSpec  `yaml:"steps" toml:"steps"`
}

// PersistSpec configures snapshot persistence.
type PersistSpec struct {
	Key    string `yaml:"key,omitempty" toml:"key,omitempty"`
	TTL    string `yaml:"ttl,omitempty" toml:"ttl,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// StepSpec is one step entry.
type StepSpec struct {
	ID          string         `yaml:"id" toml:"id"`
	Title       string         `yaml:"title,omitempty" toml:"title,omitempty"`
	Description string         `yaml:"description,omitempty" toml:"description,omitempty"`
	Icon        string         `yaml:"icon,omitempty" toml:"icon,omitempty"`
	Requires    []string       `yaml:"requires,omitempty" toml:"requires,omitempty"`
	Schema      map[string]any `yaml:"schema,omitempty" toml:"schema,omitempty"`
	SkipWhen    *SkipSpec      `yaml:"skipWhen,omitempty" toml:"skipWhen,omitempty"`
	Data        map[string]any `yaml:"data,omitempty" toml:"data,omitempty"`
}

// SkipSpec skips a step while metadata[Step][Field] equals Equals. Without a
// Field the whole metadata entry of Step is compared.
type SkipSpec struct {
	Step   string `yaml:"step" toml:"step"`
	Field  string `yaml:"field,omitempty" toml:"field,omitempty"`
	Equals any    `yaml:"equals" toml:"equals"`
}
