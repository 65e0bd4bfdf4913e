// Package scaffold renders a minimal FME package that builds as is.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/hashicorp/go-version"

	"github.com/quantmind-br/fmepackager/internal/utils"
)

//go:embed templates
var templates embed.FS

// Default values for a new package
const (
	DefaultVersion             = "0.1.0"
	DefaultMinimumFMEBuild     = 23224
	DefaultTransformerName     = "MyTransformer"
	DefaultPythonCompatibility = "311"
)

// ErrExists is returned when the destination already holds a package
var ErrExists = errors.New("destination already contains a package.yml")

var (
	// UIDPattern matches publisher and package UIDs
	UIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	// ComponentNamePattern matches transformer and format names
	ComponentNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)
)

// Values fill the package template
type Values struct {
	PublisherUID    string
	UID             string
	Name            string
	Description     string
	Version         string
	MinimumFMEBuild int
	AuthorName      string
	AuthorEmail     string
	TransformerName string
}

// DefaultValues returns Values with every optional field set
func DefaultValues() Values {
	return Values{
		Version:         DefaultVersion,
		MinimumFMEBuild: DefaultMinimumFMEBuild,
		TransformerName: DefaultTransformerName,
	}
}

// FQName is the fully-qualified transformer name
func (v Values) FQName() string {
	return fmt.Sprintf("%s.%s.%s", v.PublisherUID, v.UID, v.TransformerName)
}

// PythonCompatibility is the interpreter the transformer targets
func (v Values) PythonCompatibility() string {
	return DefaultPythonCompatibility
}

// Validate reports the first value that would make an invalid package
func (v Values) Validate() error {
	switch {
	case !UIDPattern.MatchString(v.PublisherUID):
		return fmt.Errorf("invalid publisher UID %q", v.PublisherUID)
	case !UIDPattern.MatchString(v.UID):
		return fmt.Errorf("invalid package UID %q", v.UID)
	case strings.TrimSpace(v.Name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(v.AuthorName) == "":
		return errors.New("author name is required")
	case !ComponentNamePattern.MatchString(v.TransformerName):
		return fmt.Errorf("invalid transformer name %q", v.TransformerName)
	case v.MinimumFMEBuild < 0:
		return fmt.Errorf("minimum FME build must be >= 0, got %d", v.MinimumFMEBuild)
	}
	if _, err := version.NewSemver(v.Version); err != nil {
		return fmt.Errorf("invalid version %q: %w", v.Version, err)
	}
	return nil
}

// file maps an embedded template to its destination; dst is itself a
// template
type file struct {
	tmpl string
	dst  string
}

var files = []file{
	{"templates/package.yml.tmpl", "package.yml"},
	{"templates/README.md.tmpl", "README.md"},
	{"templates/CHANGES.md.tmpl", "CHANGES.md"},
	{"templates/transformers/transformer.fmxj.tmpl", "transformers/{{.TransformerName}}.fmxj"},
	{"templates/transformers/transformer.md.tmpl", "transformers/{{.TransformerName}}.md"},
	{"templates/help/transformer.md.tmpl", "help/{{.TransformerName}}.md"},
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"json": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

// Render writes a new package into dst and returns the written paths
// relative to dst. dst must not already contain a package.yml.
func Render(dst string, v Values) ([]string, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if utils.FileExists(filepath.Join(dst, "package.yml")) {
		return nil, ErrExists
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := execute(f.dst, f.dst, v)
		if err != nil {
			return written, err
		}
		src, err := templates.ReadFile(f.tmpl)
		if err != nil {
			return written, err
		}
		content, err := execute(f.tmpl, string(src), v)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dst, filepath.FromSlash(rel))
		if err := utils.EnsureDir(path); err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, err
		}
		written = append(written, rel)
	}
	return written, nil
}

func execute(name, text string, v Values) (string, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
