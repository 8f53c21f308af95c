package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// Codec converts snapshots to and from their stored text form.
type Codec interface {
	Name() string
	Marshal(PersistedState) ([]byte, error)
	Unmarshal([]byte, *PersistedState) error
}

// Supported codec names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// CodecFor returns the codec registered under format. An empty format selects JSON.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return JSONCodec{}, nil
	case FormatYAML, "yml":
		return YAMLCodec{}, nil
	case FormatTOML:
		return TOMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q (supported: json, yaml, toml)", format)
	}
}

// JSONCodec is the default codec and produces the documented wire format.
type JSONCodec struct{}

// Name implements Codec.
func (JSONCodec) Name() string { return FormatJSON }

// Marshal implements Codec.
func (JSONCodec) Marshal(p PersistedState) ([]byte, error) { return json.Marshal(p) }

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, p *PersistedState) error { return json.Unmarshal(data, p) }

// YAMLCodec stores snapshots as YAML documents.
type YAMLCodec struct{}

// Name implements Codec.
func (YAMLCodec) Name() string { return FormatYAML }

// Marshal implements Codec.
func (YAMLCodec) Marshal(p PersistedState) ([]byte, error) { return yaml.Marshal(p) }

// Unmarshal implements Codec.
func (YAMLCodec) Unmarshal(data []byte, p *PersistedState) error { return yaml.Unmarshal(data, p) }

// TOMLCodec stores snapshots as TOML documents. TOML has no null, so nil
// metadata entries are not written; they are restored as nil on load because
// the state machine completes missing entries.
type TOMLCodec struct{}

// Name implements Codec.
func (TOMLCodec) Name() string { return FormatTOML }

// Marshal implements Codec.
func (TOMLCodec) Marshal(p PersistedState) ([]byte, error) {
	meta := make(map[string]any, len(p.Metadata))
	for k, v := range p.Metadata {
		if v != nil {
			meta[k] = v
		}
	}
	p.Metadata = meta
	return toml.Marshal(p)
}

// Unmarshal implements Codec. An empty metadata table decodes to an empty
// map; the missing entries are restored as null on Initialize.
func (TOMLCodec) Unmarshal(data []byte, p *PersistedState) error {
	if err := toml.Unmarshal(data, p); err != nil {
		return err
	}
	if p.StepID != "" && p.Metadata == nil {
		p.Metadata = step.Metadata{}
	}
	return nil
}
