package packager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// projectMarkers identify a python/ subdirectory as a buildable project
var projectMarkers = []string{"pyproject.toml", "setup.py", "setup.cfg"}

// ExecWheelBuilder builds wheels by running "python -m build --wheel"
type ExecWheelBuilder struct {
	Python string
}

// NewExecWheelBuilder creates a builder using the given interpreter,
// "python" when empty
func NewExecWheelBuilder(python string) *ExecWheelBuilder {
	if python == "" {
		python = "python"
	}
	return &ExecWheelBuilder{Python: python}
}

// Build runs the build frontend for the project in srcDir
func (b *ExecWheelBuilder) Build(ctx context.Context, srcDir, outDir string) error {
	cmd := exec.CommandContext(ctx, b.Python, "-m", "build", "--wheel", "--outdir", outDir, srcDir)
	cmd.Dir = srcDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("wheel build failed for %s: %w\n%s", srcDir, err, out)
	}
	return nil
}

func (p *Packager) copyPython(ctx context.Context) error {
	src := p.src("python")
	var wheels []string

	if utils.DirExists(src) {
		var err error
		if err = p.buildWheels(ctx, src); err != nil {
			return err
		}
		if wheels, err = p.copyWheels(src, p.dst("python")); err != nil {
			return err
		}
	}

	for _, w := range wheels {
		if !strings.Contains(w, "py3") {
			p.logger.Warn().Str("wheel", w).Msg("Not a Python 3 wheel")
		}
		if !strings.HasSuffix(w, "-none-any.whl") {
			p.logger.Warn().Str("wheel", w).Msg("Not a pure-Python wheel")
		}
	}

	for _, lib := range p.manifest.PythonPackages() {
		if !hasWheel(wheels, lib.Name) {
			return domain.Structuralf("Python library '%s' is in metadata, but was not found", lib.Name)
		}
	}
	return nil
}

func hasWheel(wheels []string, lib string) bool {
	underscored := strings.ReplaceAll(lib, "-", "_")
	for _, w := range wheels {
		if strings.HasPrefix(w, lib) || strings.HasPrefix(w, underscored) {
			return true
		}
	}
	return false
}

// buildWheels builds every project directory under src into its own dist/
func (p *Packager) buildWheels(ctx context.Context, src string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		dir := filepath.Join(src, e.Name())
		if !e.IsDir() || !isProject(dir) {
			continue
		}
		for _, stale := range []string{"build", "dist"} {
			if err := os.RemoveAll(filepath.Join(dir, stale)); err != nil {
				return err
			}
		}
		p.logger.Info().Str("project", dir).Msg("Building Python wheel")
		if err := p.wheels.Build(ctx, dir, filepath.Join(dir, "dist")); err != nil {
			return err
		}
	}
	return nil
}

func isProject(dir string) bool {
	for _, m := range projectMarkers {
		if utils.FileExists(filepath.Join(dir, m)) {
			return true
		}
	}
	return false
}

// copyWheels copies loose wheels in src and the single wheel of each
// built project into dst. It returns the copied wheel names.
func (p *Packager) copyWheels(src, dst string) ([]string, error) {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, e := range entries {
		path := filepath.Join(src, e.Name())
		if !e.IsDir() {
			if strings.HasSuffix(e.Name(), ".whl") {
				if err := utils.CopyFile(path, filepath.Join(dst, e.Name())); err != nil {
					return nil, err
				}
				copied = append(copied, e.Name())
			}
			continue
		}

		built, err := filepath.Glob(filepath.Join(path, "dist", "*.whl"))
		if err != nil {
			return nil, err
		}
		if len(built) == 0 {
			continue
		}
		if len(built) != 1 {
			return nil, domain.Structuralf("%s must contain exactly one wheel, found %d", filepath.Join(path, "dist"), len(built))
		}
		name := filepath.Base(built[0])
		if err := utils.CopyFile(built[0], filepath.Join(dst, name)); err != nil {
			return nil, err
		}
		copied = append(copied, name)
	}
	return copied, nil
}
