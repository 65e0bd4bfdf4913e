package transformer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// FmxjFile is a JSON transformer definition
type FmxjFile struct {
	path string
}

func (f *FmxjFile) Path() string     { return f.path }
func (f *FmxjFile) Dialect() Dialect { return DialectFMXJ }
func (f *FmxjFile) sealed()          {}

type fmxjDocument struct {
	Info     fmxjInfo      `json:"info"`
	Versions []fmxjVersion `json:"versions"`
}

type fmxjInfo struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Aliases    []string `json:"aliases"`
	Deprecated bool     `json:"deprecated"`
}

type fmxjVersion struct {
	Version *int `json:"version"`
	// The key is misspelled in the file format
	PythonCompatability textValue       `json:"pythonCompatability"`
	DataProcessingType  json.RawMessage `json:"dataProcessingType"`
}

// textValue accepts a JSON string or number
type textValue string

func (v *textValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = textValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = textValue(n.String())
	return nil
}

// Versions returns the file's versions in document order
func (f *FmxjFile) Versions() ([]*Transformer, error) {
	text, err := utils.ReadText(f.path)
	if err != nil {
		return nil, err
	}

	var doc fmxjDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, domain.NewDecodeError(f.path, "invalid JSON", err)
	}
	if doc.Info.Name == "" {
		return nil, domain.NewDecodeError(f.path, "info.name not found", nil)
	}

	categories := nonNil(doc.Info.Categories)
	aliases := nonNil(doc.Info.Aliases)

	versions := make([]*Transformer, 0, len(doc.Versions))
	for i, v := range doc.Versions {
		if v.Version == nil {
			return nil, domain.NewDecodeError(f.path, fmt.Sprintf("versions[%d] has no version", i), nil)
		}
		versions = append(versions, &Transformer{
			Name:                doc.Info.Name,
			Version:             *v.Version,
			PythonCompatibility: string(v.PythonCompatability),
			Categories:          categories,
			Aliases:             aliases,
			Visible:             !doc.Info.Deprecated,
			DataProcessingTypes: resolveRaw(v.DataProcessingType),
		})
	}
	return versions, nil
}

func resolveRaw(raw json.RawMessage) []string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return []string{}
	}
	return records.ResolveProcessingTypes(text)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
