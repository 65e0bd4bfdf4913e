package validator

import (
	"reflect"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
)

// EnforceUniqueNames fails when a component list repeats an entry or
// declares the same name twice, ignoring case. It reads only the manifest.
func EnforceUniqueNames(m *manifest.Manifest) error {
	for _, key := range manifest.ComponentKeys {
		entries := m.RawEntries(key)
		for i := range entries {
			for j := i + 1; j < len(entries); j++ {
				if reflect.DeepEqual(entries[i], entries[j]) {
					return domain.Structuralf("%s has non-unique elements", key)
				}
			}
		}

		seen := make(map[string]struct{})
		for _, name := range m.Names(key) {
			lower := strings.ToLower(name)
			if _, ok := seen[lower]; ok {
				return domain.Structuralf("'%s' defined in %s more than once", lower, key)
			}
			seen[lower] = struct{}{}
		}
	}
	return nil
}
