package help

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

func TestExpectedIndexTransformer(t *testing.T) {
	m := loadManifest(t, "package-hyphen", 23224, "  transformers:\n    - name: Transformer\n      version: 1")

	assert.Equal(t, map[string]string{
		"fmx_example_package-hyphen_Transformer": "/Transformer.htm",
	}, ExpectedIndex(m, nil))
}

func TestExpectedIndexFormat(t *testing.T) {
	m := loadManifest(t, "package-hyphen", 23224, "  formats:\n    - name: demoformat")

	assert.Equal(t, map[string]string{
		"ft_example_package_hyphen_demoformat_param_r":     "/demoformat_ft_param_r.htm",
		"ft_example_package_hyphen_demoformat_param_w":     "/demoformat_ft_param_w.htm",
		"ft_example_package_hyphen_demoformat_user_attr":   "/demoformat_ft_user_attr.htm",
		"param_example_package_hyphen_demoformat_r":        "/demoformat_param_r.htm",
		"param_example_package_hyphen_demoformat_w":        "/demoformat_param_w.htm",
		"rw_example_package_hyphen_demoformat_feature_rep": "/demoformat_feature_rep.htm",
		"rw_example_package_hyphen_demoformat_index":       "/demoformat.htm",
	}, ExpectedIndex(m, nil))
}

func TestExpectedIndexFormatDirections(t *testing.T) {
	m := loadManifest(t, "package", 23224, "  formats:\n    - name: demoformat")

	keys := func(directions map[string]string) []string {
		var out []string
		for k := range ExpectedIndex(m, directions) {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	assert.Equal(t, []string{
		"ft_example_package_demoformat_param_r",
		"ft_example_package_demoformat_user_attr",
		"param_example_package_demoformat_r",
		"rw_example_package_demoformat_feature_rep",
		"rw_example_package_demoformat_index",
	}, keys(map[string]string{"demoformat": "r"}))

	assert.Equal(t, []string{
		"ft_example_package_demoformat_param_w",
		"ft_example_package_demoformat_user_attr",
		"param_example_package_demoformat_w",
		"rw_example_package_demoformat_feature_rep",
		"rw_example_package_demoformat_index",
	}, keys(map[string]string{"demoformat": "w"}))
}

func TestOptionalIndex(t *testing.T) {
	m := loadManifest(t, "my-package", 23224, "  formats:\n    - name: DemoFormat")

	assert.Equal(t, map[string]string{
		"rw_example_my_package_demoformat_quickfacts": "/DemoFormat_quickfacts.htm",
	}, OptionalIndex(m))
}

func TestNewIndexDefaultThreshold(t *testing.T) {
	m := loadManifest(t, "pkg", 23224, "  transformers:\n    - name: Greeter\n      version: 1")

	assert.Equal(t, DefaultURLMinBuild, NewIndex(m, IndexOptions{}).URLMinBuild)
	assert.Equal(t, 25000, NewIndex(m, IndexOptions{URLMinBuild: 25000}).URLMinBuild)
}

func TestReadEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeIndex(t, dir,
		"fmx_a,/A.htm",
		"fmx_b,https://example.com/b",
		"fmx_b,/B.htm",
	)

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "fmx_a", Targets: []string{"/A.htm"}},
		{Key: "fmx_b", Targets: []string{"https://example.com/b", "/B.htm"}},
	}, entries)

	bad := writeIndex(t, t.TempDir(), "only_one_column")
	_, err = ReadEntries(bad)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestIndexValidate(t *testing.T) {
	const greeterKey = "fmx_example_pkg_Greeter"

	tests := []struct {
		name     string
		build    int
		rows     []string
		contains string
	}{
		{name: "valid", build: 23224, rows: []string{greeterKey + ",/Greeter.htm"}},
		{name: "valid md", build: 23224, rows: []string{greeterKey + ",/Greeter.md"}},
		{name: "url with fallback below threshold", build: 23224, rows: []string{greeterKey + ",https://docs.example.com/greeter", greeterKey + ",/Greeter.htm"}},
		{name: "url alone at threshold", build: 23300, rows: []string{greeterKey + ",https://docs.example.com/greeter"}},
		{name: "url alone below threshold", build: 23299, rows: []string{greeterKey + ",https://docs.example.com/greeter"}, contains: "Minimum build required for URL support is 23300"},
		{name: "three rows", build: 23300, rows: []string{greeterKey + ",https://a", greeterKey + ",/Greeter.htm", greeterKey + ",/Greeter.md"}, contains: "Invalid entries for " + greeterKey},
		{name: "two locals", build: 23224, rows: []string{greeterKey + ",/Greeter.htm", greeterKey + ",/Greeter.md"}, contains: "Invalid entries for " + greeterKey},
		{name: "two urls", build: 23300, rows: []string{greeterKey + ",https://a", greeterKey + ",https://b"}, contains: "Invalid entries for " + greeterKey},
		{name: "relative path", build: 23224, rows: []string{greeterKey + ",Greeter.htm"}, contains: "must start with /"},
		{name: "missing file", build: 23224, rows: []string{greeterKey + ",/Nope.htm"}, contains: "does not exist"},
		{name: "wrong extension", build: 23224, rows: []string{greeterKey + ",/style.css"}, contains: "must be htm(l) or md"},
		{name: "dot in key", build: 23224, rows: []string{"fmx_example.pkg_Greeter,/Greeter.htm"}, contains: "must not contain '.'"},
		{name: "unrecognized", build: 23224, rows: []string{greeterKey + ",/Greeter.htm", "fmx_example_pkg_Other,/Greeter.htm"}, contains: "Unrecognized help: fmx_example_pkg_Other"},
		{name: "only unrecognized", build: 23224, rows: []string{"fmx_example_pkg_Other,/Greeter.htm"}, contains: "Unrecognized help"},
		{name: "outside doc root", build: 23224, rows: []string{greeterKey + ",/../outside.htm"}, contains: "is outside the help directory"},
		{name: "nested escape", build: 23224, rows: []string{greeterKey + ",/sub/../../outside.htm"}, contains: "is outside the help directory"},
		{name: "nested inside", build: 23224, rows: []string{greeterKey + ",/sub/../Greeter.htm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadManifest(t, "pkg", tt.build, "  transformers:\n    - name: Greeter\n      version: 1")
			root := t.TempDir()
			writeFiles(t, root, map[string]string{"outside.htm": "<p>out</p>"})
			dir := filepath.Join(root, "help")
			writeFiles(t, dir, map[string]string{"Greeter.htm": "<p>hi</p>", "Greeter.md": "hi", "style.css": ""})
			csvPath := writeIndex(t, dir, tt.rows...)

			err := NewIndex(m, IndexOptions{}).Validate(csvPath, dir)
			if tt.contains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStructural)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestIndexValidateMissing(t *testing.T) {
	m := loadManifest(t, "pkg", 23224, "  transformers:\n    - name: Greeter\n      version: 1\n    - name: Alpha\n      version: 1")
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"Greeter.htm": ""})
	csvPath := writeIndex(t, dir, "fmx_example_pkg_Greeter,/Greeter.htm")

	err := NewIndex(m, IndexOptions{}).Validate(csvPath, dir)
	require.Error(t, err)

	var se *domain.StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Missing help", se.Message)
	assert.Equal(t, []string{"fmx_example_pkg_Alpha"}, se.Names)
	assert.Equal(t, "Missing help: fmx_example_pkg_Alpha", err.Error())
}

func TestIndexValidateQuickfactsOptional(t *testing.T) {
	m := loadManifest(t, "pkg", 23224, "  formats:\n    - name: Demo")
	dir := t.TempDir()

	files := map[string]string{}
	var rows []string
	for key, target := range ExpectedIndex(m, map[string]string{"Demo": "r"}) {
		files[target[1:]] = "<p></p>"
		rows = append(rows, key+","+target)
	}
	writeFiles(t, dir, files)
	ix := NewIndex(m, IndexOptions{Directions: map[string]string{"Demo": "r"}})

	assert.NoError(t, ix.Validate(writeIndex(t, dir, rows...), dir))

	writeFiles(t, dir, map[string]string{"Demo_quickfacts.htm": ""})
	rows = append(rows, "rw_example_pkg_demo_quickfacts,/Demo_quickfacts.htm")
	assert.NoError(t, ix.Validate(writeIndex(t, dir, rows...), dir))
}

func TestIndexGenerate(t *testing.T) {
	m := loadManifest(t, "pkg", 23224, "  transformers:\n    - name: Greeter\n      version: 1\n    - name: Undocumented\n      version: 1")
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"Greeter.htm": ""})

	csvPath := filepath.Join(dir, IndexFileName)
	rows, err := NewIndex(m, IndexOptions{}).Generate(dir, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "fmx_example_pkg_Greeter,/Greeter.htm\n", string(data))
}

func TestIndexValidateEmpty(t *testing.T) {
	empty := loadManifest(t, "pkg", 23224, "  python_packages:\n    - name: lib")
	assert.NoError(t, NewIndex(empty, IndexOptions{}).ValidateEmpty())

	m := loadManifest(t, "pkg", 23224, "  transformers:\n    - name: Greeter\n      version: 1")
	err := NewIndex(m, IndexOptions{}).ValidateEmpty()
	assert.EqualError(t, err, "Missing help: fmx_example_pkg_Greeter")
}
