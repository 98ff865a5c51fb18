package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Filesystem writes files below Root. Each file is written to a temporary
// file in the same directory and renamed into place, so readers never see a
// partial file.
type Filesystem struct {
	Root string
}

// NewFilesystem returns a sink writing below root.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{Root: root}
}

// WriteFile writes content to path below the root, creating directories as needed.
func (fs *Filesystem) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := fs.resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, "creating output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", path)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "renaming into %s", path)
	}

	return nil
}

// resolve maps a relative slash path below the root, rejecting escapes.
func (fs *Filesystem) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.WithHint(
			errors.Newf("path %q leaves the output directory", path),
			"artifact paths must be relative",
		)
	}

	return filepath.Join(fs.Root, clean), nil
}

// WriteDebugUnformatted writes source that failed to format next to where
// path would go, as <name>.unformatted.go. Best-effort: errors are returned
// but callers usually ignore them.
func (fs *Filesystem) WriteDebugUnformatted(ctx context.Context, path string, content []byte) error {
	return fs.WriteFile(ctx, strings.TrimSuffix(path, ".go")+".unformatted.go", content)
}
