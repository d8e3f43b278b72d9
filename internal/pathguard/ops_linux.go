// SPDX-License-Identifier: MPL-2.0

//go:build linux

package pathguard

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// SecureOpsSupported reports whether NewOps(true) resolves paths by descriptor.
const SecureOpsSupported = true

// secureOps walks from the root one component at a time, refusing to traverse
// a symlink at any step, and applies the final operation relative to the
// parent directory descriptor.
type secureOps struct{}

func newSecureOps() Ops { return secureOps{} }

func (secureOps) OpenFile(path string, flag int, perm fs.FileMode) (*os.File, error) {
	dirfd, name, err := openParent(path)
	if err != nil {
		return nil, err
	}
	defer unix.Close(dirfd)

	fd, err := unix.Openat(dirfd, name, flag|unix.O_NOFOLLOW|unix.O_CLOEXEC, uint32(perm.Perm()))
	if err != nil {
		return nil, &fs.PathError{Op: "openat", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}

func (secureOps) Remove(path string, kind Kind) error {
	dirfd, name, err := openParent(path)
	if err != nil {
		return err
	}
	defer unix.Close(dirfd)

	var st unix.Stat_t
	if err := unix.Fstatat(dirfd, name, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return &fs.PathError{Op: "fstatat", Path: path, Err: err}
	}
	flags := 0
	switch {
	case kind == Directory && st.Mode&unix.S_IFMT == unix.S_IFDIR:
		flags = unix.AT_REMOVEDIR
	case kind == RegularFile && st.Mode&unix.S_IFMT == unix.S_IFREG:
	default:
		return &fs.PathError{Op: "unlinkat", Path: path, Err: ErrWrongType}
	}
	if err := unix.Unlinkat(dirfd, name, flags); err != nil {
		return &fs.PathError{Op: "unlinkat", Path: path, Err: err}
	}
	return nil
}

func (secureOps) Chtimes(path string, atime, mtime time.Time) error {
	dirfd, name, err := openParent(path)
	if err != nil {
		return err
	}
	defer unix.Close(dirfd)

	ts := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	if err := unix.UtimesNanoAt(dirfd, name, ts, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return &fs.PathError{Op: "utimensat", Path: path, Err: err}
	}
	return nil
}

// openParent returns an O_PATH descriptor for the directory containing the
// leaf of path, together with the leaf name. The caller closes the descriptor.
// For the root itself the leaf is ".".
func openParent(path string) (dirfd int, name string, err error) {
	if path == "" || path[0] != separator {
		return -1, "", &fs.PathError{Op: "open", Path: path, Err: ErrNotAbsolute}
	}

	dir, name := "", "."
	if i := strings.LastIndexByte(path, separator); i < len(path)-1 {
		name = path[i+1:]
		if i > 0 {
			dir = path[1:i]
		}
	}

	const dirFlags = unix.O_PATH | unix.O_DIRECTORY | unix.O_CLOEXEC
	dirfd, err = unix.Open("/", dirFlags, 0)
	if err != nil {
		return -1, "", &fs.PathError{Op: "open", Path: "/", Err: err}
	}

	walked := ""
	for dir != "" {
		var comp string
		if i := strings.IndexByte(dir, separator); i >= 0 {
			comp, dir = dir[:i], dir[i+1:]
		} else {
			comp, dir = dir, ""
		}
		walked += "/" + comp

		next, err := unix.Openat(dirfd, comp, dirFlags|unix.O_NOFOLLOW, 0)
		unix.Close(dirfd)
		if err != nil {
			return -1, "", &fs.PathError{Op: "openat", Path: walked, Err: err}
		}
		dirfd = next
	}
	return dirfd, name, nil
}
