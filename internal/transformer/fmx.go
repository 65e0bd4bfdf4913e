package transformer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// fmxBlockMarker starts each version block of a scripted .fmx file
const fmxBlockMarker = "TRANSFORMER_NAME"

// Keys read from a scripted definition block
const (
	keyName                = "TRANSFORMER_NAME"
	keyVersion             = "VERSION"
	keyCategory            = "CATEGORY"
	keyAliases             = "ALIASES"
	keyVisible             = "VISIBLE"
	keyPythonCompatibility = "PYTHON_COMPATIBILITY"
	keyDataProcessingType  = "DATA_PROCESSING_TYPE"
)

// FmxFile is a plain-text scripted transformer file
type FmxFile struct {
	path string
}

func (f *FmxFile) Path() string     { return f.path }
func (f *FmxFile) Dialect() Dialect { return DialectFMX }
func (f *FmxFile) sealed()          {}

// Versions returns every definition block of the file, in file order.
// A block runs from its marker line up to, but excluding, the line before
// the next marker. The last block excludes the final line of the file.
func (f *FmxFile) Versions() ([]*Transformer, error) {
	text, err := utils.ReadText(f.path)
	if err != nil {
		return nil, err
	}
	lines := utils.SplitLines(text)

	starts := matchingIndexes(lines, func(l string) bool {
		return strings.HasPrefix(l, fmxBlockMarker)
	})

	versions := make([]*Transformer, 0, len(starts))
	for n, i := range starts {
		end := len(lines) - 1
		if n < len(starts)-1 {
			end = starts[n+1] - 1
		}
		if end < i {
			end = i
		}

		t, err := newFmxTransformer(lines[i:end])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		versions = append(versions, t)
	}
	return versions, nil
}

func newFmxTransformer(lines []string) (*Transformer, error) {
	props := records.DecodeProperties(lines)

	name, hasName := props.Get(keyName)
	rawVersion, hasVersion := props.Get(keyVersion)
	if !hasName || !hasVersion {
		return nil, domain.NewDecodeError("", "TRANSFORMER_NAME or VERSION not found", nil)
	}
	version, err := strconv.Atoi(rawVersion)
	if err != nil {
		return nil, domain.NewDecodeError(name, fmt.Sprintf("invalid VERSION %q", rawVersion), nil)
	}

	category, _ := props.Get(keyCategory)
	aliases, _ := props.Get(keyAliases)
	python, _ := props.Get(keyPythonCompatibility)
	processing, _ := props.Get(keyDataProcessingType)

	visible := true
	if v, ok := props.Get(keyVisible); ok {
		visible = strings.EqualFold(v, "yes")
	}

	return &Transformer{
		Name:                name,
		Version:             version,
		PythonCompatibility: python,
		Categories:          records.SplitList(category, ","),
		Aliases:             records.SplitList(aliases, " "),
		Visible:             visible,
		DataProcessingTypes: records.ResolveProcessingTypes(processing),
		Changes:             props.Changes,
	}, nil
}

func matchingIndexes(lines []string, match func(string) bool) []int {
	var out []int
	for i, l := range lines {
		if match(l) {
			out = append(out, i)
		}
	}
	return out
}
