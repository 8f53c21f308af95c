package definition

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Definition file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatFor returns the document format implied by path's extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", NewUnsupportedFormatError(path)
	}
}

// Load reads, parses and compiles the definition file at path.
func Load(path string) (*Flow, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(path)
		}
		return nil, &UserError{
			Code:       ErrCodeNotFound,
			Message:    "failed to read definition file",
			Context:    path,
			Suggestion: "Check that the file is readable.",
			Underlying: err,
		}
	}

	doc, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// Parse decodes data in the given format. Unknown keys are rejected. source
// is only used in error messages.
func Parse(data []byte, format, source string) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, NewParseError(source, format, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, NewParseError(source, format, err)
		}
	default:
		return nil, NewUnsupportedFormatError(source)
	}

	return &doc, nil
}
