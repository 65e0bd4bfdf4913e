package transformer

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// CustomFmxFile is a compiled transformer file. Its body may be encrypted
// binary data interleaved with ASCII header lines.
type CustomFmxFile struct {
	path string
}

func (f *CustomFmxFile) Path() string     { return f.path }
func (f *CustomFmxFile) Dialect() Dialect { return DialectCustom }
func (f *CustomFmxFile) sealed()          {}

// Versions returns one record per header line, in file order. Each block
// starts one line before its header and ends two lines before the next
// header; the last block excludes the final line of the file.
func (f *CustomFmxFile) Versions() ([]*Transformer, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	lines := utils.SplitLinesBytes(data)
	prefix := []byte(records.CustomHeaderPrefix)

	// Lines that are not valid UTF-8 belong to encrypted payloads and are
	// never markers.
	var starts []int
	for i, l := range lines {
		if utf8.Valid(l) && bytes.HasPrefix(l, prefix) {
			starts = append(starts, i)
		}
	}

	versions := make([]*Transformer, 0, len(starts))
	for n, i := range starts {
		end := len(lines) - 1
		if n < len(starts)-1 {
			end = starts[n+1] - 2
		}
		start := max(i-1, 0)
		if end < start {
			end = start
		}

		t, err := newCustomTransformer(lines[start:end])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
		versions = append(versions, t)
	}
	return versions, nil
}

func newCustomTransformer(block [][]byte) (*Transformer, error) {
	prefix := []byte(records.CustomHeaderPrefix)

	var header *records.CustomHeader
	for _, l := range block {
		if !bytes.HasPrefix(l, prefix) || !utf8.Valid(l) {
			continue
		}
		h, err := records.DecodeCustomHeader(string(l))
		if err != nil {
			return nil, err
		}
		header = h
		break
	}
	if header == nil {
		return nil, domain.NewDecodeError("", "TRANSFORMER_BEGIN line not found", nil)
	}

	encrypted := len(block) > 0 && string(bytes.TrimSpace(block[0])) == EncryptedMarker

	return &Transformer{
		Name:                header.Name,
		Version:             header.Version,
		PythonCompatibility: header.PyVer,
		Categories:          header.Categories,
		Aliases:             []string{},
		Visible:             header.Visible(),
		DataProcessingTypes: header.DataProcessingTypes,
		Header:              header,
		IsEncrypted:         encrypted,
	}, nil
}
