package validator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/records"
)

const demoFmf = `SOURCE_READER EXAMPLE.MY-PACKAGE.DEMOFORMAT
FORMAT_NAME EXAMPLE.MY-PACKAGE.DEMOFORMAT
`

const demoDB = `; format info
;
EXAMPLE.MY-PACKAGE.DEMOFORMAT|Demo Format|FILE|BOTH|BOTH|YES|*.demo|FILE_FORMAT|NO|SOURCE_SETTINGS|DEST_SETTINGS|YES|2021|0|DEMO|NO|Demo
`

func TestValidateFormat(t *testing.T) {
	m := loadManifest(t, 23224, "  formats:\n    - name: DemoFormat")
	v := New(m, nil)

	info, err := v.ValidateFormat(
		writeFixture(t, "DemoFormat.fmf", demoFmf),
		writeFixture(t, "DemoFormat.db", demoDB),
		m.Formats()[0])
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.MY-PACKAGE.DEMOFORMAT", info.FormatName)
	assert.Equal(t, "Demo", info.MarketingFamily)
}

func TestValidateFormat_CaseInsensitive(t *testing.T) {
	m := loadManifest(t, 23224, "  formats:\n    - name: DemoFormat")
	fmf := "source_reader example.my-package.DemoFormat\nformat_name example.my-package.DemoFormat\n"
	db := "example.my-package.DemoFormat|Demo Format|FILE|BOTH|BOTH|YES|*.demo|FILE_FORMAT|NO|S|D|YES|2021|0|DEMO|NO|Demo\n"

	_, err := New(m, nil).ValidateFormat(writeFixture(t, "a.fmf", fmf), writeFixture(t, "a.db", db), m.Formats()[0])
	assert.NoError(t, err)
}

func TestValidateFormat_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fmf      string
		db       string
		target   error
		contains string
	}{
		{"fmf wrong name", "SOURCE_READER OTHER\nFORMAT_NAME OTHER\n", demoDB, domain.ErrStructural, "SOURCE_READER and FORMAT_NAME must be 'EXAMPLE.MY-PACKAGE.DEMOFORMAT'"},
		{"fmf missing source reader", "FORMAT_NAME EXAMPLE.MY-PACKAGE.DEMOFORMAT\n", demoDB, domain.ErrStructural, "SOURCE_READER"},
		{"db empty", demoFmf, "; only comments\n\n", domain.ErrStructural, "empty"},
		{"db short record", demoFmf, "EXAMPLE.MY-PACKAGE.DEMOFORMAT|a|b\n", domain.ErrDecode, "3 fields"},
		{"db wrong name", demoFmf, "EXAMPLE.MY-PACKAGE.OTHER|Demo Format|FILE|BOTH|BOTH|YES|*.demo|FILE_FORMAT|NO|S|D|YES|2021|0|DEMO|NO|Demo\n", domain.ErrNameMismatch, "EXAMPLE.MY-PACKAGE.OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadManifest(t, 23224, "  formats:\n    - name: DemoFormat")
			_, err := New(m, nil).ValidateFormat(writeFixture(t, "f.fmf", tt.fmf), writeFixture(t, "f.db", tt.db), m.Formats()[0])
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateFormat_MissingFiles(t *testing.T) {
	m := loadManifest(t, 23224, "  formats:\n    - name: DemoFormat")
	dir := t.TempDir()

	_, err := New(m, nil).ValidateFormat(filepath.Join(dir, "DemoFormat.fmf"), filepath.Join(dir, "DemoFormat.db"), m.Formats()[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStructural)
	assert.Contains(t, err.Error(), "is in metadata, but was not found")
}

func TestFormatVisibility(t *testing.T) {
	tests := []struct {
		direction string
		visible   string
		expected  string
		wantErr   bool
	}{
		{"BOTH", "NO", "", false},
		{"BOTH", "YES", "rw", false},
		{"BOTH", "INPUT", "r", false},
		{"BOTH", "OUTPUT", "w", false},
		{"INPUT", "YES", "r", false},
		{"INPUT", "INPUT", "r", false},
		{"INPUT", "NO", "", false},
		{"INPUT", "OUTPUT", "", true},
		{"OUTPUT", "YES", "w", false},
		{"OUTPUT", "OUTPUT", "w", false},
		{"OUTPUT", "INPUT", "", true},
		{"SIDEWAYS", "YES", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.direction+"_"+tt.visible, func(t *testing.T) {
			got, err := FormatVisibility(&records.FormatInfo{FormatName: "X", Direction: tt.direction, Visible: tt.visible})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrDecode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
