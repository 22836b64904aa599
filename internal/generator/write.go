package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// maxSymlinks bounds symlink resolution, matching the usual kernel limit.
const maxSymlinks = 40

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place, so path either keeps its old content or holds all of data.
// The temporary file is removed on any failure.
func writeFileAtomic(fs afero.Fs, path string, data []byte, mode os.FileMode) (err error) {
	tmpName := tempName(path)

	f, err := fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, fs.Remove(tmpName))
		}
	}()

	if _, err = f.Write(data); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Sync(); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}

	// OpenFile permissions are subject to umask.
	if err = fs.Chmod(tmpName, mode); err != nil {
		return err
	}

	slog.Debug("renaming temporary file", "from", tmpName, "to", path)
	return fs.Rename(tmpName, path)
}

// resolveTarget follows symlinks at path so the write replaces the file the
// link points to, not the link. Filesystems without symlink support return
// path unchanged. A dangling link resolves to its missing target.
func resolveTarget(fs afero.Fs, path string) (string, error) {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	for i := 0; i < maxSymlinks; i++ {
		info, _, err := lstater.LstatIfPossible(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}

		link, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		slog.Debug("following symlink", "link", path, "target", link)
		path = link
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", path)
}

// targetMode returns the permission bits of the existing file at path, or
// DefaultFileMode when there is none.
func targetMode(fs afero.Fs, path string) (os.FileMode, error) {
	info, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultFileMode, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// tempName returns a hidden, unique file name next to path.
func tempName(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
}
