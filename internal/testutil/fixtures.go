// Package testutil provides package fixtures shared by tests.
package testutil

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/utils"
)

// Identity of the fixture package
const (
	PublisherUID = "example"
	UID          = "my-package"
	Version      = "0.1.0"
	FpkgName     = "example.my-package-0.1.0.fpkg"
)

// Manifest is the package.yml of the fixture package
const Manifest = `fpkg_version: 1
uid: my-package
publisher_uid: example
name: My Package
description: Greets people and reads demo files
version: 0.1.0
minimum_fme_build: 23224
author:
  name: Example Inc.
  email: dev@example.com
package_content:
  transformers:
    - name: MyGreeter
      version: 2
  formats:
    - name: DemoFormat
  web_services:
    - name: My Web Service.xml
  web_filesystems:
    - name: MyFS
  python_packages:
    - name: fme-greeter
`

// GreeterFmx is a scripted transformer with two versions, newest first
const GreeterFmx = `TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 2
CATEGORY: Integrations,Web
ALIASES: Greeter Hello
VISIBLE: yes
PYTHON_COMPATIBILITY: 36
DATA_PROCESSING_TYPE: {"if": [{"condition": "MODE == source", "then": "source"}], "default": "transform"}
TEMPLATE_START
TEMPLATE_END
# ----------------------------------------------------------------------------

TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 1
CATEGORY: Integrations
VISIBLE: no
PYTHON_COMPATIBILITY: 36
TEMPLATE_START
TEMPLATE_END
# ----------------------------------------------------------------------------
`

// DemoFormatLine is the format info record of the fixture format
const DemoFormatLine = "EXAMPLE.MY-PACKAGE.DEMOFORMAT|Demo Format|FILE|BOTH|BOTH|YES|*.demo|FILE_FORMAT|NO|SOURCE_SETTINGS|DEST_SETTINGS|YES|2021|0|DEMO|NO|Demo|Files,Demo"

// WebServiceXML is an exported web service definition
const WebServiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<ImportExportData>
  <webservices>
    <webservice>
      <authentication>
        <service_name>example.my-package.My Web Service</service_name>
        <auth_type>0</auth_type>
        <help_url>&lt;a href=https://example.com&gt;my_alias&lt;/a&gt;</help_url>
        <description>&lt;p&gt;A simple web service&lt;/p&gt;</description>
        <markdown_description>A simple web service</markdown_description>
        <connection_description>&lt;p&gt;A basic connection description.&lt;/p&gt;</connection_description>
        <markdown_connection_description>A basic connection description.</markdown_connection_description>
      </authentication>
    </webservice>
  </webservices>
</ImportExportData>
`

// PackageFiles returns the text files of the fixture package, keyed by
// slash-separated path. The icon is written separately by WritePackage.
func PackageFiles() map[string]string {
	files := map[string]string{
		"package.yml":                               Manifest,
		"README.md":                                 "# My Package\n",
		"CHANGES.md":                                "# 0.1.0\n\nInitial release.\n",
		"transformers/MyGreeter.fmx":                GreeterFmx,
		"transformers/MyGreeter.md":                 "# MyGreeter\n\nGreets people.\n",
		"transformers/MyGreeter.fms":                "fms",
		"transformers/notes.txt":                    "extra",
		"transformers/Unlisted.fmx":                 "TRANSFORMER_NAME: example.my-package.Unlisted\n",
		"formats/DemoFormat.fmf":                    "SOURCE_READER EXAMPLE.MY-PACKAGE.DEMOFORMAT\nFORMAT_NAME EXAMPLE.MY-PACKAGE.DEMOFORMAT\n",
		"formats/DemoFormat.db":                     "; Demo format\n" + DemoFormatLine + "\n",
		"formats/DemoFormat.md":                     "# Demo Format\n\nReads demo files.\n",
		"web_services/My Web Service.xml":           WebServiceXML,
		"web_filesystems/MyFS.fme":                  "<fme/>",
		"localization/guiprompts_fr.txt":            "prompts",
		"localization/MyGreeter_fr.md":              "# Bonjour\n",
		"localization/notes.txt":                    "skipped",
		"python/fme_greeter-0.1.0-py3-none-any.whl": "wheel",
		"help/MyGreeter.md":                         "# MyGreeter\n\nGreets people.\n",
	}
	for _, page := range []string{
		"DemoFormat", "DemoFormat_feature_rep", "DemoFormat_ft_user_attr",
		"DemoFormat_param_r", "DemoFormat_param_w", "DemoFormat_ft_param_r", "DemoFormat_ft_param_w",
	} {
		files["help/"+page+".md"] = "# " + page + "\n"
	}
	return files
}

// WriteFiles writes files under dir
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// WritePackage writes the fixture package into a new directory and
// returns its path
func WritePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, PackageFiles())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.png"), PNG(t, 200, 200), 0644))
	return dir
}

// PNG encodes a blank image of the given size
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

// NewTestLogger creates a logger that discards output but keeps the
// test name as a field
func NewTestLogger(t *testing.T) *utils.Logger {
	t.Helper()
	zlogger := zerolog.New(io.Discard).With().
		Timestamp().
		Str("test", t.Name()).
		Logger()
	return &utils.Logger{Logger: zlogger}
}

// NewCaptureLogger creates a JSON logger writing to w
func NewCaptureLogger(w io.Writer) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{Level: "debug", Format: "json", Output: w})
}
