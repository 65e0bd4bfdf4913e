package help

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/fmepackager/internal/manifest"
)

func loadManifest(t *testing.T, uid string, build int, content string) *manifest.Manifest {
	t.Helper()
	data := fmt.Sprintf(`
fpkg_version: 1
uid: %s
publisher_uid: example
name: Test
description: Test package
version: 0.1.0
minimum_fme_build: %d
author:
  name: Example Inc.
package_content:
%s
`, uid, build, content)
	m, err := manifest.NewLoader().LoadFromBytes([]byte(data))
	require.NoError(t, err)
	return m
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func writeIndex(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, IndexFileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644))
	return path
}
