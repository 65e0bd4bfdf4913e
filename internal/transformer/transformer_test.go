package transformer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

const myGreeterFmx = `# ============================================================================
TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 1
CATEGORY: Integrations
ALIASES: Greeter
VISIBLE: yes
PYTHON_COMPATIBILITY: 36
DATA_PROCESSING_TYPE: transform
CHANGE_LOG_START
CHANGE_LOG_END
PARAMETER_NAME: FIRST_NAME
TEMPLATE_START
FACTORY_DEF * PythonFactory
TEMPLATE_END
`

const twoVersionFmx = `TRANSFORMER_NAME: example.my-package.Versioned
VERSION: 2
VISIBLE: yes
PYTHON_COMPATIBILITY: 37
# ----------------------------------------------------------------------------

TRANSFORMER_NAME: example.my-package.Versioned
VERSION: 1
VISIBLE: no
PYTHON_COMPATIBILITY: 27
# ----------------------------------------------------------------------------
`

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected Dialect
		wantErr  bool
	}{
		{"scripted fmx", "a.fmx", myGreeterFmx, DialectFMX, false},
		{"compiled shebang", "b.fmx", "#! <?xml version=\"1.0\" ?>\n", DialectCustom, false},
		{"compiled encrypted", "c.fmx", "FMW0001\n\x00\x01", DialectCustom, false},
		{"upper case extension", "d.FMX", myGreeterFmx, DialectFMX, false},
		{"json", "e.fmxj", "{}", DialectFMXJ, false},
		{"empty fmx", "f.fmx", "", DialectFMX, false},
		{"unknown extension", "g.fmw", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, tt.file, []byte(tt.content))
			d, err := Detect(path)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedDialect)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDetectMissingFile(t *testing.T) {
	_, err := Detect(filepath.Join(t.TempDir(), "missing.fmx"))
	assert.Error(t, err)
}

func TestOpenVariants(t *testing.T) {
	fmx, err := Open(writeFixture(t, "a.fmx", []byte(myGreeterFmx)))
	require.NoError(t, err)
	assert.IsType(t, &FmxFile{}, fmx)
	assert.Equal(t, DialectFMX, fmx.Dialect())
	assert.True(t, fmx.Dialect().Scripted())

	custom, err := Open(writeFixture(t, "b.fmx", []byte("FMW0001\n")))
	require.NoError(t, err)
	assert.IsType(t, &CustomFmxFile{}, custom)
	assert.False(t, custom.Dialect().Scripted())

	fmxj, err := Open(writeFixture(t, "c.fmxj", []byte("{}")))
	require.NoError(t, err)
	assert.IsType(t, &FmxjFile{}, fmxj)
	assert.True(t, strings.HasSuffix(fmxj.Path(), "c.fmxj"))
}
