// SPDX-License-Identifier: MPL-2.0

package pathguard

import (
	"io/fs"
	"os"
	"time"
)

type (
	// Ops performs the filesystem operations that follow a successful
	// validation. Paths passed to Ops must already have been accepted.
	Ops interface {
		// OpenFile opens path. The leaf is never followed if it is a symlink.
		OpenFile(path string, flag int, perm fs.FileMode) (*os.File, error)
		// Remove unlinks a regular file, or removes an empty directory when
		// kind is Directory.
		Remove(path string, kind Kind) error
		// Chtimes sets the access and modification times of path.
		Chtimes(path string, atime, mtime time.Time) error
	}

	// directOps resolves every path again through the kernel's own lookup.
	directOps struct{}
)

// NewOps returns descriptor-relative operations when secure is set and the
// platform supports them, and plain path-based operations otherwise.
func NewOps(secure bool) Ops {
	if secure {
		return newSecureOps()
	}
	return directOps{}
}

func (directOps) OpenFile(path string, flag int, perm fs.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

func (directOps) Remove(path string, kind Kind) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !kind.matches(info.Mode()) {
		return &fs.PathError{Op: "remove", Path: path, Err: ErrWrongType}
	}
	return os.Remove(path)
}

func (directOps) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
