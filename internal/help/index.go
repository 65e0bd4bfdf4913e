// Package help builds and validates package help documentation and its
// package_help.csv index.
package help

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// IndexFileName is the help index at the root of a help directory
const IndexFileName = "package_help.csv"

// DefaultURLMinBuild is the first FME build that resolves help contexts to
// external URLs without a local fallback
const DefaultURLMinBuild = 23300

// DefaultDirections is used for formats without a known visibility
const DefaultDirections = "rw"

// Entry is one help context and the one or two targets it maps to
type Entry struct {
	Key     string
	Targets []string
}

// ExpectedIndex maps every help context the package must document to its
// conventional doc path. directions maps format names to their visibility
// string; formats without an entry use DefaultDirections.
func ExpectedIndex(m *manifest.Manifest, directions map[string]string) map[string]string {
	index := make(map[string]string)
	ident := fmt.Sprintf("%s_%s", m.PublisherUID, m.UID)

	for _, t := range m.Transformers() {
		index[fmt.Sprintf("fmx_%s_%s", ident, t.Name)] = fmt.Sprintf("/%s.htm", t.Name)
	}

	for _, f := range m.Formats() {
		fmtIdent := formatIdent(m, f.Name)
		dirs, ok := directions[f.Name]
		if !ok {
			dirs = DefaultDirections
		}

		// The prefix is "rw" even for read-only or write-only formats
		index[fmt.Sprintf("rw_%s_index", fmtIdent)] = fmt.Sprintf("/%s.htm", f.Name)
		index[fmt.Sprintf("rw_%s_feature_rep", fmtIdent)] = fmt.Sprintf("/%s_feature_rep.htm", f.Name)
		index[fmt.Sprintf("ft_%s_user_attr", fmtIdent)] = fmt.Sprintf("/%s_ft_user_attr.htm", f.Name)
		for _, d := range dirs {
			index[fmt.Sprintf("param_%s_%c", fmtIdent, d)] = fmt.Sprintf("/%s_param_%c.htm", f.Name, d)
			index[fmt.Sprintf("ft_%s_param_%c", fmtIdent, d)] = fmt.Sprintf("/%s_ft_param_%c.htm", f.Name, d)
		}
	}
	return index
}

// OptionalIndex maps the help contexts a package may document but is not
// required to
func OptionalIndex(m *manifest.Manifest) map[string]string {
	index := make(map[string]string)
	for _, f := range m.Formats() {
		index[fmt.Sprintf("rw_%s_quickfacts", formatIdent(m, f.Name))] = fmt.Sprintf("/%s_quickfacts.htm", f.Name)
	}
	return index
}

func formatIdent(m *manifest.Manifest, name string) string {
	ident := strings.ToLower(fmt.Sprintf("%s_%s_%s", m.PublisherUID, m.UID, name))
	return strings.ReplaceAll(ident, "-", "_")
}

// IndexOptions configures an Index
type IndexOptions struct {
	// Directions maps format names to their visibility string
	Directions map[string]string
	// URLMinBuild defaults to DefaultURLMinBuild
	URLMinBuild int
	Logger      *utils.Logger
}

// Index validates and generates the help index of one package
type Index struct {
	manifest    *manifest.Manifest
	directions  map[string]string
	URLMinBuild int
	logger      *utils.Logger
}

// NewIndex creates an Index for m
func NewIndex(m *manifest.Manifest, opts IndexOptions) *Index {
	minBuild := opts.URLMinBuild
	if minBuild <= 0 {
		minBuild = DefaultURLMinBuild
	}
	return &Index{
		manifest:    m,
		directions:  opts.Directions,
		URLMinBuild: minBuild,
		logger:      utils.OrNop(opts.Logger).WithComponent("help"),
	}
}

// Expected returns the required help contexts
func (ix *Index) Expected() map[string]string {
	return ExpectedIndex(ix.manifest, ix.directions)
}

// ReadEntries reads a help index CSV. Rows that repeat a key are grouped
// into one Entry, in file order.
func ReadEntries(csvPath string) ([]Entry, error) {
	text, err := utils.ReadText(csvPath)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, domain.NewDecodeError(csvPath, "invalid help index", err)
	}

	var entries []Entry
	pos := make(map[string]int)
	for _, row := range rows {
		if len(row) < 2 {
			return nil, domain.NewDecodeError(csvPath, "help index rows must have 2 columns", nil)
		}
		key, target := row[0], row[1]
		if i, ok := pos[key]; ok {
			entries[i].Targets = append(entries[i].Targets, target)
			continue
		}
		pos[key] = len(entries)
		entries = append(entries, Entry{Key: key, Targets: []string{target}})
	}
	return entries, nil
}

// Validate checks the help index at csvPath against the package. Local
// targets are resolved under docRoot.
func (ix *Index) Validate(csvPath, docRoot string) error {
	entries, err := ReadEntries(csvPath)
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ix.validateEntry(e, docRoot); err != nil {
			return err
		}
		present[e.Key] = struct{}{}
	}

	expected := ix.Expected()
	optional := OptionalIndex(ix.manifest)

	var unrecognized []string
	for key := range present {
		_, isExpected := expected[key]
		_, isOptional := optional[key]
		if !isExpected && !isOptional {
			unrecognized = append(unrecognized, key)
		}
	}
	if len(unrecognized) > 0 {
		sort.Strings(unrecognized)
		return domain.NewStructuralError("Unrecognized help", unrecognized...)
	}

	var missing []string
	for key := range expected {
		if _, ok := present[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return domain.NewStructuralError("Missing help", missing...)
	}

	ix.logger.Debug().Int("contexts", len(entries)).Msg("Help index valid")
	return nil
}

// ValidateEmpty checks a package that ships no help at all. It fails when
// the package has components that require documentation.
func (ix *Index) ValidateEmpty() error {
	expected := ix.Expected()
	if len(expected) == 0 {
		return nil
	}
	missing := make([]string, 0, len(expected))
	for key := range expected {
		missing = append(missing, key)
	}
	sort.Strings(missing)
	return domain.NewStructuralError("Missing help", missing...)
}

func (ix *Index) validateEntry(e Entry, docRoot string) error {
	if strings.Contains(e.Key, ".") {
		return domain.Structuralf("help context %s must not contain '.'", e.Key)
	}
	if len(e.Targets) > 2 {
		return domain.Structuralf("Invalid entries for %s", e.Key)
	}

	var urls, locals []string
	for _, target := range e.Targets {
		if isURL(target) {
			urls = append(urls, target)
		} else {
			locals = append(locals, target)
		}
	}

	switch {
	case len(urls) > 1, len(locals) > 1:
		return domain.Structuralf("Invalid entries for %s", e.Key)
	case len(urls) == 1 && len(locals) == 0 && ix.manifest.MinimumFMEBuild < ix.URLMinBuild:
		return domain.Structuralf("Minimum build required for URL support is %d", ix.URLMinBuild)
	}

	for _, target := range locals {
		if err := checkLocalTarget(e.Key, target, docRoot); err != nil {
			return err
		}
	}
	return nil
}

func checkLocalTarget(key, target, docRoot string) error {
	if !strings.HasPrefix(target, "/") {
		return domain.Structuralf("invalid help path for %s: %s must start with /", key, target)
	}
	root := filepath.Clean(docRoot)
	path := filepath.Join(root, filepath.FromSlash(strings.TrimLeft(target, "/")))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return domain.Structuralf("invalid help path for %s: %s is outside the help directory", key, target)
	}
	if !utils.FileExists(path) {
		return domain.Structuralf("invalid help path for %s: %s does not exist", key, path)
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "htm", "html", "md":
		return nil
	default:
		return domain.Structuralf("invalid help path for %s: %s must be htm(l) or md", key, path)
	}
}

func isURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Generate writes csvPath from the doc files present under docRoot. Help
// contexts without a doc file are logged and left out.
func (ix *Index) Generate(docRoot, csvPath string) (int, error) {
	expected := ix.Expected()
	all := make(map[string]string, len(expected))
	for k, v := range OptionalIndex(ix.manifest) {
		all[k] = v
	}
	for k, v := range expected {
		all[k] = v
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := utils.EnsureDir(csvPath); err != nil {
		return 0, err
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := 0
	for _, key := range keys {
		doc := filepath.Join(docRoot, filepath.FromSlash(strings.TrimPrefix(all[key], "/")))
		if !utils.FileExists(doc) {
			if _, required := expected[key]; required {
				ix.logger.Warn().Str("context", key).Str("doc", doc).Msg("Missing doc")
			}
			continue
		}
		if err := w.Write([]string{key, all[key]}); err != nil {
			return rows, err
		}
		rows++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return rows, err
	}
	return rows, f.Close()
}
