package summarizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/testutil"
)

const nestedWebService = `<?xml version="1.0" encoding="UTF-8"?>
<ImportExportData>
  <webservices>
    <webservicexml>&lt;?xml version="1.0" encoding="UTF-8"?&gt;
&lt;webservice&gt;&lt;authentication&gt;&lt;help_url&gt;https://example.com/help&lt;/help_url&gt;&lt;description&gt;Legacy&lt;/description&gt;&lt;/authentication&gt;&lt;/webservice&gt;</webservicexml>
  </webservices>
</ImportExportData>
`

func TestParseWebService(t *testing.T) {
	empty := map[string]string{
		"help_url":                        "",
		"description":                     "",
		"markdown_description":            "",
		"connection_description":          "",
		"markdown_connection_description": "",
	}
	with := func(kv map[string]string) map[string]string {
		out := make(map[string]string, len(empty))
		for k, v := range empty {
			out[k] = v
		}
		for k, v := range kv {
			out[k] = v
		}
		return out
	}

	tests := []struct {
		name      string
		content   string
		want      map[string]string
		malformed bool
	}{
		{
			name:    "current export",
			content: testutil.WebServiceXML,
			want: with(map[string]string{
				"help_url":                        "<a href=https://example.com>my_alias</a>",
				"description":                     "<p>A simple web service</p>",
				"markdown_description":            "A simple web service",
				"connection_description":          "<p>A basic connection description.</p>",
				"markdown_connection_description": "A basic connection description.",
			}),
		},
		{
			name:    "nested legacy export",
			content: nestedWebService,
			want:    with(map[string]string{"help_url": "https://example.com/help", "description": "Legacy"}),
		},
		{
			name:    "no authentication",
			content: `<ImportExportData><webservices><webservice><name>x</name></webservice></webservices></ImportExportData>`,
			want:    empty,
		},
		{
			name:    "no webservices",
			content: `<ImportExportData/>`,
			want:    empty,
		},
		{
			name:    "other root",
			content: `<webservice><authentication><description>x</description></authentication></webservice>`,
			want:    empty,
		},
		{
			name:    "empty nested document",
			content: `<ImportExportData><webservices><webservicexml>  </webservicexml></webservices></ImportExportData>`,
			want:    empty,
		},
		{
			name:      "malformed",
			content:   `<ImportExportData><webservices>`,
			want:      empty,
			malformed: true,
		},
		{
			name:      "malformed nested document",
			content:   `<ImportExportData><webservices><webservicexml>&lt;webservice&gt;</webservicexml></webservices></ImportExportData>`,
			want:      empty,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ws.xml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := ParseWebService(path)
			if tt.malformed {
				assert.ErrorIs(t, err, domain.ErrDecode)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWebService_Latin1(t *testing.T) {
	content := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>`+
		`<ImportExportData><webservices><webservice><authentication><description>Caf`), 0xe9)
	content = append(content, []byte(`</description></authentication></webservice></webservices></ImportExportData>`)...)

	path := filepath.Join(t.TempDir(), "ws.xml")
	require.NoError(t, os.WriteFile(path, content, 0644))

	got, err := ParseWebService(path)
	require.NoError(t, err)
	assert.Equal(t, "Café", got["description"])
}

func TestParseWebService_Missing(t *testing.T) {
	_, err := ParseWebService(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
