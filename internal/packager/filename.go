package packager

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/manifest"
)

// Extension is the file extension of a package archive
const Extension = ".fpkg"

var fpkgName = regexp.MustCompile(`^([^.]+\.[^.]+)-(\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.-]+)?)$`)

// BuildFilename returns "publisher_uid.uid-version.fpkg"
func BuildFilename(m *manifest.Manifest) (string, error) {
	if m.PublisherUID == "" || m.UID == "" || m.Version == "" {
		return "", fmt.Errorf("all parts of the fpkg filename are required")
	}
	return fmt.Sprintf("%s.%s-%s%s", m.PublisherUID, m.UID, m.Version, Extension), nil
}

// SplitFilename splits a file name built by BuildFilename into the
// package's "publisher_uid.uid" identifier and its version
func SplitFilename(name string) (string, string, error) {
	if !strings.HasSuffix(name, Extension) {
		return "", "", fmt.Errorf("FME Package extension must be 'fpkg': %s", name)
	}
	match := fpkgName.FindStringSubmatch(strings.TrimSuffix(name, Extension))
	if match == nil {
		return "", "", fmt.Errorf("unrecognized fpkg name '%s'", name)
	}
	return match[1], match[2], nil
}
