package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ImportSchema is the top-level structure for a bill-of-quantities import.
type ImportSchema struct {
	Project ProjectImport `json:"project" yaml:"project"`
	Items   []ItemImport  `json:"items" yaml:"items"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID  string `json:"short_id" yaml:"short_id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// ItemImport defines one line item. Numeric fields are optional; absent
// values fall back to the calculator defaults.
type ItemImport struct {
	Ref           string   `json:"ref" yaml:"ref"`
	Poz           string   `json:"poz" yaml:"poz"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Unit          string   `json:"unit" yaml:"unit"`
	Category      string   `json:"category" yaml:"category"`
	X             *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y             *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Z             *float64 `json:"z,omitempty" yaml:"z,omitempty"`
	Multiplier    *float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	Count         *float64 `json:"count,omitempty" yaml:"count,omitempty"`
	UnitWeight    *float64 `json:"unit_weight,omitempty" yaml:"unit_weight,omitempty"`
	TotalQuantity *float64 `json:"total_quantity,omitempty" yaml:"total_quantity,omitempty"`
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf("unsupported import file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadImportSchema reads and parses a project import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, format)
}

// ParseImportSchema decodes raw import data in the given format.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, errors.Wrap(err, "parsing import file")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, errors.Wrap(err, "parsing import file")
		}
	default:
		return nil, errors.Newf("unknown import format %q", format)
	}
	return &schema, nil
}
