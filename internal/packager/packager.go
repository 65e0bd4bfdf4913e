// Package packager validates a package source directory, assembles its
// build directory and packs it into an .fpkg archive.
package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quantmind-br/fmepackager/internal/archive"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
	"github.com/quantmind-br/fmepackager/internal/utils"
	"github.com/quantmind-br/fmepackager/internal/validator"
)

// Directory names inside a package
const (
	BuildDir = "build"
	DistDir  = "dist"
)

// Options configures a Packager
type Options struct {
	Logger *utils.Logger
	// WheelBuilder builds python/ projects. Defaults to ExecWheelBuilder.
	WheelBuilder domain.WheelBuilder
	// URLMinBuild is passed to the help index
	URLMinBuild int
	// Progress shows a progress bar while packing
	Progress       bool
	ProgressWriter io.Writer
}

// Packager builds one package source directory
type Packager struct {
	srcDir    string
	buildDir  string
	distDir   string
	manifest  *manifest.Manifest
	validator *validator.Validator
	wheels    domain.WheelBuilder
	opts      Options
	logger    *utils.Logger

	// directions maps format names to their visibility, for the help index
	directions map[string]string
}

// New loads and validates the manifest of the package at srcDir
func New(srcDir string, opts Options) (*Packager, error) {
	m, err := manifest.NewLoader().LoadDir(srcDir)
	if err != nil {
		return nil, err
	}

	logger := utils.OrNop(opts.Logger).WithComponent("packager").WithPackage(m.Identifier())
	wheels := opts.WheelBuilder
	if wheels == nil {
		wheels = NewExecWheelBuilder("")
	}

	return &Packager{
		srcDir:     srcDir,
		buildDir:   filepath.Join(srcDir, BuildDir),
		distDir:    filepath.Join(srcDir, DistDir),
		manifest:   m,
		validator:  validator.New(m, opts.Logger),
		wheels:     wheels,
		opts:       opts,
		logger:     logger,
		directions: make(map[string]string),
	}, nil
}

// Manifest returns the package manifest
func (p *Packager) Manifest() *manifest.Manifest {
	return p.manifest
}

// BuildDir returns the directory Build writes to
func (p *Packager) BuildDir() string {
	return p.buildDir
}

// Build validates every component and assembles the build directory.
// It stops at the first failure; the build directory is then incomplete.
func (p *Packager) Build(ctx context.Context) error {
	p.logger.Info().Str("build_dir", p.buildDir).Msg("Collecting files")

	if err := validator.EnforceUniqueNames(p.manifest); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"reset", p.resetBuildDir},
		{"required files", p.copyRequiredFiles},
		{"icon", p.copyIcon},
		{"transformers", p.copyTransformers},
		{"web services", p.copyWebServices},
		{"web filesystems", p.copyWebFilesystems},
		{"formats", p.copyFormats},
		{"localization", p.copyLocalization},
		{"help", p.copyHelp},
		{"python", p.copyPython},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Debug().Str("step", step.name).Msg("Build step")
		if err := step.run(ctx); err != nil {
			return err
		}
	}

	p.logger.Info().Msg("Build complete")
	return nil
}

// MakeFpkg packs the build directory into dist/ and returns the archive path
func (p *Packager) MakeFpkg(ctx context.Context) (string, error) {
	name, err := BuildFilename(p.manifest)
	if err != nil {
		return "", err
	}
	if !utils.DirExists(p.buildDir) {
		return "", fmt.Errorf("%w: build directory %s", domain.ErrNotFound, p.buildDir)
	}

	path := filepath.Join(p.distDir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", err
	}

	p.logger.Info().Str("fpkg", path).Msg("Saving fpkg")
	err = archive.Pack(ctx, p.buildDir, path, archive.PackOptions{
		Progress:       p.opts.Progress,
		ProgressWriter: p.opts.ProgressWriter,
		Logger:         p.logger,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (p *Packager) resetBuildDir(context.Context) error {
	if err := os.RemoveAll(p.buildDir); err != nil {
		return err
	}
	return os.MkdirAll(p.buildDir, 0755)
}

func (p *Packager) src(parts ...string) string {
	return filepath.Join(append([]string{p.srcDir}, parts...)...)
}

func (p *Packager) dst(parts ...string) string {
	return filepath.Join(append([]string{p.buildDir}, parts...)...)
}
