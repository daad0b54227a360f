package iconmod

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed iconmap.schema.json
var iconMapSchema []byte

// Sentinel errors for icon map loading.
var (
	ErrInvalidIconMap = errors.New("invalid icon map")
	ErrUnknownFormat  = errors.New("unknown icon map format")
)

// Format is the serialization of an icon map file.
type Format string

// Supported icon map formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the icon map format from a file extension. Anything that is
// not YAML is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IconMap maps legacy icon names to the identifiers exported by the icons
// module. It is immutable; Merge returns a new map.
type IconMap struct {
	entries map[string]string
}

// NewIconMap copies entries into an IconMap.
func NewIconMap(entries map[string]string) IconMap {
	return IconMap{entries: maps.Clone(entries)}
}

// Resolve returns the identifier for name. Lookup is exact and case-sensitive.
func (m IconMap) Resolve(name string) (string, error) {
	identifier, ok := m.entries[name]
	if !ok || identifier == "" {
		return "", &UnmappedIconError{Name: name}
	}

	return identifier, nil
}

// Merge returns a map holding the entries of m overlaid with other.
func (m IconMap) Merge(other IconMap) IconMap {
	merged := make(map[string]string, len(m.entries)+len(other.entries))
	maps.Copy(merged, m.entries)
	maps.Copy(merged, other.entries)

	return IconMap{entries: merged}
}

// Len returns the number of entries.
func (m IconMap) Len() int {
	return len(m.entries)
}

// Names returns the legacy icon names in sorted order.
func (m IconMap) Names() []string {
	return slices.Sorted(maps.Keys(m.entries))
}

// InvalidIconMapError lists schema violations found in an icon map.
type InvalidIconMapError struct {
	Problems []string
}

func (e *InvalidIconMapError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidIconMap, strings.Join(e.Problems, "; "))
}

// Unwrap exposes ErrInvalidIconMap.
func (e *InvalidIconMapError) Unwrap() error {
	return ErrInvalidIconMap
}

// LoadIconMap reads and validates an icon map file.
func LoadIconMap(path string) (IconMap, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is an explicit user input.
	if err != nil {
		return IconMap{}, fmt.Errorf("read icon map: %w", err)
	}

	iconMap, err := ParseIconMap(data, FormatOf(path))
	if err != nil {
		return IconMap{}, fmt.Errorf("%s: %w", path, err)
	}

	return iconMap, nil
}

// ParseIconMap decodes data in the given format and validates it against the
// icon map schema.
func ParseIconMap(data []byte, format Format) (IconMap, error) {
	raw, err := decodeIconMap(data, format)
	if err != nil {
		return IconMap{}, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(iconMapSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return IconMap{}, fmt.Errorf("validate icon map: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			problems = append(problems, verr.String())
		}

		return IconMap{}, &InvalidIconMapError{Problems: problems}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return IconMap{}, &InvalidIconMapError{Problems: []string{"root must be an object"}}
	}

	entries := make(map[string]string, len(obj))

	for name, value := range obj {
		identifier, isString := value.(string)
		if !isString {
			return IconMap{}, &InvalidIconMapError{Problems: []string{name + ": value must be a string"}}
		}

		entries[name] = identifier
	}

	return IconMap{entries: entries}, nil
}

func decodeIconMap(data []byte, format Format) (any, error) {
	var raw any

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		err := dec.Decode(&raw)
		if err != nil {
			return nil, fmt.Errorf("decode JSON icon map: %w", err)
		}
	case FormatYAML:
		err := yaml.Unmarshal(data, &raw)
		if err != nil {
			return nil, fmt.Errorf("decode YAML icon map: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return raw, nil
}
