// Package transformer parses the three transformer file dialects into a
// uniform list of versioned Transformer records.
package transformer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/records"
)

// Dialect identifies a transformer file format
type Dialect string

const (
	// DialectFMX is the plain-text scripted .fmx dialect
	DialectFMX Dialect = "fmx"
	// DialectCustom is the compiled .fmx dialect, possibly encrypted
	DialectCustom Dialect = "custom"
	// DialectFMXJ is the JSON .fmxj dialect
	DialectFMXJ Dialect = "fmxj"
)

// Scripted reports whether python compatibility follows the scripted rules
func (d Dialect) Scripted() bool {
	return d != DialectCustom
}

// Transformer is one version of a transformer definition
type Transformer struct {
	Name                string
	Version             int
	PythonCompatibility string
	Categories          []string
	Aliases             []string
	Visible             bool
	DataProcessingTypes []string

	// Changes is the change log of a scripted definition
	Changes string

	// Header and IsEncrypted are only set for the compiled dialect
	Header      *records.CustomHeader
	IsEncrypted bool
}

// File is a transformer file holding one or more versions, newest first
type File interface {
	Path() string
	Dialect() Dialect
	Versions() ([]*Transformer, error)

	sealed()
}

// Magic first-line markers of compiled transformer files
const (
	shebangMarker   = "#!"
	EncryptedMarker = "FMW0001"
)

// Detect returns the dialect of the transformer file at path
func Detect(path string) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fmxj":
		return DialectFMXJ, nil
	case ".fmx":
		first, err := firstLine(path)
		if err != nil {
			return "", err
		}
		if bytes.HasPrefix(first, []byte(shebangMarker)) || bytes.HasPrefix(first, []byte(EncryptedMarker)) {
			return DialectCustom, nil
		}
		return DialectFMX, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedDialect, path)
	}
}

// Open detects the dialect of path and returns the matching File
func Open(path string) (File, error) {
	dialect, err := Detect(path)
	if err != nil {
		return nil, err
	}
	return newFile(path, dialect), nil
}

func newFile(path string, dialect Dialect) File {
	switch dialect {
	case DialectCustom:
		return &CustomFmxFile{path: path}
	case DialectFMXJ:
		return &FmxjFile{path: path}
	default:
		return &FmxFile{path: path}
	}
}

func firstLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return line, nil
}
