package help

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/quantmind-br/fmepackager/internal/archive"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// AliasFileName is the help context alias file of a documentation export
const AliasFileName = "package_aliases.flali"

type aliasFile struct {
	XMLName xml.Name   `xml:"CatapultAliasFile"`
	Maps    []aliasMap `xml:"Map"`
}

type aliasMap struct {
	Name string `xml:"Name,attr"`
	Link string `xml:"Link,attr"`
}

// ApplyHelp imports a documentation export, either a zip or a directory,
// into the help directory of the package at pkgDir. The export's alias file
// is converted to package_help.csv. It returns the number of index rows
// written.
func ApplyHelp(ctx context.Context, src, pkgDir string, logger *utils.Logger) (int, error) {
	logger = utils.OrNop(logger).WithComponent("help")

	docRoot := src
	if utils.FileExists(src) {
		tmp, err := os.MkdirTemp("", "fmepackager-help-")
		if err != nil {
			return 0, err
		}
		defer os.RemoveAll(tmp)

		logger.Info().Str("src", src).Msg("Extracting documentation")
		if err := archive.Unpack(src, tmp); err != nil {
			return 0, err
		}
		if docRoot, err = singleRoot(tmp); err != nil {
			return 0, err
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	maps, err := readAliases(filepath.Join(docRoot, AliasFileName))
	if err != nil {
		return 0, err
	}

	if embedded := embeddedDirs(docRoot); embedded > 0 {
		logger.Warn().Int("count", embedded).Msg("Embedded doc folders (starting with '!'). Avoid these if possible")
	}

	dest := filepath.Join(pkgDir, "help")
	if err := os.RemoveAll(dest); err != nil {
		return 0, err
	}
	if err := utils.CopyTree(docRoot, dest, utils.CopyIgnoreGlobs); err != nil {
		return 0, err
	}

	rows, err := writeAliasIndex(maps, dest)
	if err != nil {
		return rows, err
	}
	logger.Info().Int("rows", rows).Int("aliases", len(maps)).Msg("Wrote help index")
	if rows == 0 {
		return 0, domain.NewStructuralError("flali doesn't reference any included doc")
	}
	return rows, nil
}

// singleRoot returns the only directory inside dir, or dir itself when it
// holds anything else
func singleRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

func readAliases(path string) ([]aliasMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.Structuralf("%s not found in documentation export", AliasFileName)
	}
	defer f.Close()

	var doc aliasFile
	dec := xml.NewDecoder(f)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewDecodeError(path, "invalid alias file", err)
	}
	return doc.Maps, nil
}

func embeddedDirs(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "!") {
			n++
		}
	}
	return n
}

// writeAliasIndex writes one row per alias whose doc was copied into dest
func writeAliasIndex(maps []aliasMap, dest string) (int, error) {
	f, err := os.Create(filepath.Join(dest, IndexFileName))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := 0
	for _, m := range maps {
		name := strings.ReplaceAll(m.Name, ".", "_")
		link := m.Link
		if strings.HasPrefix(link, "/Content") {
			link = strings.Replace(link, "/Content", "", 1)
		}
		if !utils.FileExists(filepath.Join(dest, filepath.FromSlash(strings.TrimLeft(link, "/")))) {
			continue
		}
		if err := w.Write([]string{name, link}); err != nil {
			return rows, fmt.Errorf("failed to write help index: %w", err)
		}
		rows++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return rows, err
	}
	return rows, f.Close()
}
