// Package archive packs and unpacks .fpkg zip archives.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/quantmind-br/fmepackager/internal/utils"
)

// ErrUnsafeEntry is returned for archive entries that would be written
// outside the destination directory, or that are symlinks
var ErrUnsafeEntry = errors.New("unsafe archive entry")

// PackOptions configures Pack
type PackOptions struct {
	// Progress shows a progress bar on ProgressWriter, or stdout when nil
	Progress       bool
	ProgressWriter io.Writer
	Logger         *utils.Logger
}

// Pack zips the contents of srcDir into dst. Entry names are relative to
// srcDir and use forward slashes. An existing dst is replaced.
func Pack(ctx context.Context, srcDir, dst string, opts PackOptions) error {
	logger := utils.OrNop(opts.Logger)

	files, err := listFiles(srcDir, dst)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(dst); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	var bar interface{ Add(int) error }
	if opts.Progress {
		bar = utils.NewProgressBarTo(opts.ProgressWriter, len(files), utils.DescPacking)
	}

	zw := zip.NewWriter(out)
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if err := addFile(zw, srcDir, rel); err != nil {
			zw.Close()
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	logger.Debug().Str("archive", dst).Int("files", len(files)).Msg("Archive written")
	return out.Close()
}

// listFiles returns the slash-separated relative paths of every regular
// file under dir, sorted, excluding skip
func listFiles(dir, skip string) ([]string, error) {
	skipAbs, _ := filepath.Abs(skip)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == skipAbs {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func addFile(zw *zip.Writer, srcDir, rel string) error {
	path := filepath.Join(srcDir, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = rel
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Unpack extracts the zip archive src into dstDir
func Unpack(src, dstDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dstDir)
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}

	for _, f := range r.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return err
		}
		if f.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s is a symlink", ErrUnsafeEntry, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func entryPath(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, name)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return out.Close()
}

// Hash returns the hex SHA-256 of the file at path
func Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
