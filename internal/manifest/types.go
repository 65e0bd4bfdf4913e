package manifest

import (
	"fmt"
	"strings"
)

// FileName is the manifest file name at the root of a package
const FileName = "package.yml"

// Component list keys under package_content
const (
	KeyTransformers   = "transformers"
	KeyFormats        = "formats"
	KeyWebServices    = "web_services"
	KeyWebFilesystems = "web_filesystems"
	KeyPythonPackages = "python_packages"
)

// ComponentKeys lists every component list, in manifest order
var ComponentKeys = []string{
	KeyTransformers,
	KeyFormats,
	KeyWebServices,
	KeyWebFilesystems,
	KeyPythonPackages,
}

// Manifest is the parsed package.yml. It is never mutated after loading.
type Manifest struct {
	FpkgVersion     int            `yaml:"fpkg_version"`
	UID             string         `yaml:"uid"`
	PublisherUID    string         `yaml:"publisher_uid"`
	Name            string         `yaml:"name"`
	Description     string         `yaml:"description"`
	Version         string         `yaml:"version"`
	MinimumFMEBuild int            `yaml:"minimum_fme_build"`
	Author          Author         `yaml:"author"`
	PackageContent  PackageContent `yaml:"package_content"`

	raw map[string]any
}

// Author identifies the package author
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	URL   string `yaml:"url"`
}

// PackageContent holds the component lists
type PackageContent struct {
	Transformers   []TransformerEntry   `yaml:"transformers"`
	Formats        []FormatEntry        `yaml:"formats"`
	WebServices    []WebServiceEntry    `yaml:"web_services"`
	WebFilesystems []WebFilesystemEntry `yaml:"web_filesystems"`
	PythonPackages []PythonPackageEntry `yaml:"python_packages"`
}

// TransformerEntry declares a transformer and its latest version
type TransformerEntry struct {
	Name    string         `yaml:"name"`
	Version int            `yaml:"version"`
	Extra   map[string]any `yaml:",inline"`
}

// FormatEntry declares a format
type FormatEntry struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// WebServiceEntry declares a web service by its file name
type WebServiceEntry struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// WebFilesystemEntry declares a web filesystem
type WebFilesystemEntry struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// PythonPackageEntry declares a python package shipped as a wheel
type PythonPackageEntry struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// Transformers returns the declared transformers
func (m *Manifest) Transformers() []TransformerEntry {
	return orEmpty(m.PackageContent.Transformers)
}

// Formats returns the declared formats
func (m *Manifest) Formats() []FormatEntry {
	return orEmpty(m.PackageContent.Formats)
}

// WebServices returns the declared web services
func (m *Manifest) WebServices() []WebServiceEntry {
	return orEmpty(m.PackageContent.WebServices)
}

// WebFilesystems returns the declared web filesystems
func (m *Manifest) WebFilesystems() []WebFilesystemEntry {
	return orEmpty(m.PackageContent.WebFilesystems)
}

// PythonPackages returns the declared python packages
func (m *Manifest) PythonPackages() []PythonPackageEntry {
	return orEmpty(m.PackageContent.PythonPackages)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Names returns the entry names of a component list
func (m *Manifest) Names(key string) []string {
	var names []string
	switch key {
	case KeyTransformers:
		for _, e := range m.Transformers() {
			names = append(names, e.Name)
		}
	case KeyFormats:
		for _, e := range m.Formats() {
			names = append(names, e.Name)
		}
	case KeyWebServices:
		for _, e := range m.WebServices() {
			names = append(names, e.Name)
		}
	case KeyWebFilesystems:
		for _, e := range m.WebFilesystems() {
			names = append(names, e.Name)
		}
	case KeyPythonPackages:
		for _, e := range m.PythonPackages() {
			names = append(names, e.Name)
		}
	}
	return names
}

// RawEntries returns the raw, JSON-normalized entries of a component list
func (m *Manifest) RawEntries(key string) []any {
	content, ok := m.raw["package_content"].(map[string]any)
	if !ok {
		return nil
	}
	entries, _ := content[key].([]any)
	return entries
}

// Raw returns the JSON-normalized manifest tree. Callers must not modify it.
func (m *Manifest) Raw() map[string]any {
	return m.raw
}

// Identifier returns "publisher_uid.uid"
func (m *Manifest) Identifier() string {
	return fmt.Sprintf("%s.%s", m.PublisherUID, m.UID)
}

// FQName returns the fully-qualified name of a component
func (m *Manifest) FQName(short string) string {
	return fmt.Sprintf("%s.%s.%s", m.PublisherUID, m.UID, short)
}

// FormatFQName returns the upper-cased fully-qualified name of a format
func (m *Manifest) FormatFQName(short string) string {
	return strings.ToUpper(m.FQName(short))
}

// SameFormatName compares two format names. Format names are compared
// case-insensitively everywhere.
func SameFormatName(a, b string) bool {
	return strings.EqualFold(a, b)
}
