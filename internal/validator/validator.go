// Package validator cross-checks package components on disk against their
// manifest entries.
package validator

import (
	"fmt"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/transformer"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// MinCompiledBuild is the oldest FME build that may produce a compiled
// transformer
const MinCompiledBuild = 19000

// Validator validates the components of one package
type Validator struct {
	manifest *manifest.Manifest
	logger   *utils.Logger
}

// New creates a Validator for m. A nil logger discards output.
func New(m *manifest.Manifest, logger *utils.Logger) *Validator {
	return &Validator{
		manifest: m,
		logger:   utils.OrNop(logger).WithComponent("validator"),
	}
}

// Manifest returns the manifest being validated against
func (v *Validator) Manifest() *manifest.Manifest {
	return v.manifest
}

// ValidateTransformer parses the transformer file at path and checks every
// version against entry. On success the parsed file and its versions,
// newest first, are returned.
func (v *Validator) ValidateTransformer(path string, entry manifest.TransformerEntry) (transformer.File, []*transformer.Transformer, error) {
	f, err := transformer.Open(path)
	if err != nil {
		return nil, nil, err
	}
	versions, err := f.Versions()
	if err != nil {
		return nil, nil, err
	}
	if len(versions) == 0 {
		return nil, nil, domain.NewDecodeError(path, "no transformer definitions found", nil)
	}

	expected := v.manifest.FQName(entry.Name)
	for _, t := range versions {
		if t.Version < 1 {
			return nil, nil, domain.NewDecodeError(path,
				fmt.Sprintf("version must be >= 1, got %d", t.Version), nil)
		}
		if t.Name != expected {
			return nil, nil, domain.NewNameMismatchError(path, expected, t.Name)
		}
		if f.Dialect() == transformer.DialectCustom {
			if err := v.checkCompiled(path, entry, t.Header); err != nil {
				return nil, nil, err
			}
		}
	}

	newest := versions[0]
	if newest.Version != entry.Version {
		return nil, nil, domain.Structuralf("%s: missing version %d", path, entry.Version)
	}
	if err := checkPython(f.Dialect(), entry.Name, newest.PythonCompatibility); err != nil {
		return nil, nil, err
	}

	v.logger.Debug().
		Str("path", path).
		Str("dialect", string(f.Dialect())).
		Int("versions", len(versions)).
		Msg("Transformer validated")
	return f, versions, nil
}

func (v *Validator) checkCompiled(path string, entry manifest.TransformerEntry, h *records.CustomHeader) error {
	if h == nil {
		return domain.NewDecodeError(path, "missing TRANSFORMER_BEGIN header", nil)
	}
	if h.InsertMode != records.LinkedAlways {
		return domain.Structuralf("%s: insert mode must be %q, not %q", path, records.LinkedAlways, h.InsertMode)
	}
	if h.BuildNum < MinCompiledBuild {
		return domain.NewCompatibilityError(domain.CompatCompiledBuild, entry.Name,
			fmt.Sprintf("'%s' must be created from FME build %d or newer, got %d", entry.Name, MinCompiledBuild, h.BuildNum))
	}
	if h.BuildNum < v.manifest.MinimumFMEBuild {
		return domain.NewCompatibilityError(domain.CompatCompiledBuild, entry.Name,
			fmt.Sprintf("'%s' was created with FME build %d, older than minimum_fme_build %d",
				entry.Name, h.BuildNum, v.manifest.MinimumFMEBuild))
	}
	return nil
}
