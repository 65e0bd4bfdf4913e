// Package verifier checks a packed .fpkg by unpacking it and running the
// full build over its contents.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/archive"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/packager"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// Result statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrNotFpkg is reported for paths that are missing or not .fpkg files
var ErrNotFpkg = errors.New("The file must exist and have a .fpkg extension")

// Result is the outcome of verifying one archive
type Result struct {
	Path    string `json:"-"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the archive is valid
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Text renders the result for a terminal
func (r Result) Text() string {
	if r.OK() {
		return "Success: Package Valid"
	}
	return "Error Validating Package: " + r.Message
}

// JSON renders the result as a JSON object
func (r Result) JSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func success(path string) Result {
	return Result{Path: path, Status: StatusSuccess, Message: "valid"}
}

func failure(path string, err error) Result {
	return Result{Path: path, Status: StatusError, Message: err.Error()}
}

// Options configures a Verifier
type Options struct {
	Logger       *utils.Logger
	WheelBuilder domain.WheelBuilder
	URLMinBuild  int
	// TempDir is the parent of each run's scratch directory, os.TempDir when empty
	TempDir string
}

// Verifier verifies .fpkg archives
type Verifier struct {
	opts   Options
	logger *utils.Logger
}

// New creates a Verifier
func New(opts Options) *Verifier {
	return &Verifier{
		opts:   opts,
		logger: utils.OrNop(opts.Logger).WithComponent("verifier"),
	}
}

// Verify unpacks path into a scratch directory, builds and repacks it. It
// never returns an error; failures are reported in the Result.
func (v *Verifier) Verify(ctx context.Context, path string) Result {
	if err := v.verify(ctx, path); err != nil {
		v.logger.Debug().Err(err).Str("fpkg", path).Msg("Package invalid")
		return failure(path, err)
	}
	v.logger.Debug().Str("fpkg", path).Msg("Package valid")
	return success(path)
}

func (v *Verifier) verify(ctx context.Context, path string) error {
	if !strings.EqualFold(filepath.Ext(path), packager.Extension) || !utils.FileExists(path) {
		return ErrNotFpkg
	}

	// Every run gets its own directory so concurrent runs never share a build
	dir, err := os.MkdirTemp(v.opts.TempDir, "fpkg-verify-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	v.logger.Debug().Str("fpkg", path).Str("dir", dir).Msg("Unpacking package")
	if err := archive.Unpack(path, dir); err != nil {
		return err
	}

	p, err := packager.New(dir, packager.Options{
		Logger:       v.opts.Logger,
		WheelBuilder: v.opts.WheelBuilder,
		URLMinBuild:  v.opts.URLMinBuild,
	})
	if err != nil {
		return err
	}
	if err := p.Build(ctx); err != nil {
		return err
	}
	_, err = p.MakeFpkg(ctx)
	return err
}

// VerifyAll verifies paths on up to workers goroutines. Results are in the
// order of paths.
func (v *Verifier) VerifyAll(ctx context.Context, paths []string, workers int) ([]Result, error) {
	pool := utils.NewPool(workers, func(ctx context.Context, path string) (any, error) {
		return v.Verify(ctx, path), nil
	})

	tasks, err := pool.Process(ctx, paths)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(tasks))
	for _, task := range utils.Ordered(tasks) {
		results = append(results, task.Result.(Result))
	}
	return results, nil
}
