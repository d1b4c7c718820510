package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a scene document encoding
type Format int

// The supported document encodings
const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name or file extension to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("unknown scene document format %q, expected yaml, json or toml", name)
}

// FormatFromPath infers the document format from a file extension
func FormatFromPath(path string) (Format, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return format, nil
}

// IsSceneFile reports whether path has a scene document extension
func IsSceneFile(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Parse decodes a scene document. Unknown fields are rejected.
func Parse(r io.Reader, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("scene document is empty")
			}
			return nil, fmt.Errorf("failed to parse YAML scene: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("scene document is empty")
			}
			return nil, fmt.Errorf("failed to parse JSON scene: %w", err)
		}
	case FormatTOML:
		decoder := toml.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot parse scene document format %v", format)
	}

	return &doc, nil
}

// LoadFile reads and decodes a scene document, choosing the decoder by extension
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	doc, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load reads a scene file and builds it
func Load(path string) (*Description, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	desc, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// Open resolves a built-in scene name or a scene file path
func Open(nameOrPath string) (*Document, error) {
	if doc, err := Builtin(nameOrPath); err == nil {
		return doc, nil
	}
	if !IsSceneFile(nameOrPath) {
		return nil, fmt.Errorf("unknown scene %q: not a built-in scene (%s) or a .yaml, .json or .toml file",
			nameOrPath, strings.Join(BuiltinNames(), ", "))
	}
	return LoadFile(nameOrPath)
}

// Encode writes a document in the given format
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML scene: %w", err)
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	}
	return fmt.Errorf("cannot encode scene document format %v", format)
}
