// SPDX-License-Identifier: MPL-2.0

package pathguard

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

const separator = '/'

type (
	// Lstater answers lstat queries. It lets tests replace the filesystem.
	Lstater interface {
		Lstat(name string) (fs.FileInfo, error)
	}

	// Validator judges paths against the restrictions.
	Validator struct {
		fs Lstater
	}

	osFS struct{}
)

var defaultValidator = NewValidator(nil)

func (osFS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }

// NewValidator returns a Validator backed by fsys, or by the host filesystem
// when fsys is nil.
func NewValidator(fsys Lstater) *Validator {
	if fsys == nil {
		fsys = osFS{}
	}
	return &Validator{fs: fsys}
}

// Validate judges path with the host filesystem. See Validator.Validate.
func Validate(path string, want Kind, allowMissing bool) (Verdict, error) {
	return defaultValidator.Validate(path, want, allowMissing)
}

// Validate judges path in a fixed order and reports the first rule it breaks.
//
// Lexical rules come first, so a malformed path never reaches the filesystem.
// A missing leaf is accepted when allowMissing is set; its ancestors are then
// not inspected. The only error returned is ErrEmptyPath; every other outcome,
// including filesystem failures, is expressed in the Verdict.
func (v *Validator) Validate(path string, want Kind, allowMissing bool) (Verdict, error) {
	if path == "" {
		return Verdict{}, ErrEmptyPath
	}
	verdict := Verdict{Path: path, Expected: want}

	if path[0] != separator {
		verdict.Code = NotAbsolute
		return verdict, nil
	}
	if len(path) > 1 && path[len(path)-1] == separator {
		verdict.Code = TrailingSeparator
		return verdict, nil
	}
	if hasIllegalPattern(path) {
		verdict.Code = IllegalPattern
		return verdict, nil
	}

	info, err := v.fs.Lstat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if allowMissing {
			return verdict, nil
		}
		verdict.Code = NotFound
		verdict.Cause = err
		return verdict, nil
	case err != nil:
		verdict.Code = SystemError
		verdict.Cause = err
		return verdict, nil
	}
	verdict.Info = info
	if info.Mode()&fs.ModeSymlink != 0 || !want.matches(info.Mode()) {
		verdict.Code = WrongType
		return verdict, nil
	}

	// Walk the ancestors by truncating at the last separator until only the
	// root remains. The root itself cannot be a symlink.
	for dir := parent(path); dir != ""; dir = parent(dir) {
		info, err := v.fs.Lstat(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			verdict.Code = NotFound
			verdict.Cause = err
			return verdict, nil
		case err != nil:
			verdict.Code = SystemError
			verdict.Cause = err
			return verdict, nil
		case info.Mode()&fs.ModeSymlink != 0:
			verdict.Code = SymlinkInPath
			return verdict, nil
		}
	}

	return verdict, nil
}

// hasIllegalPattern reports whether any two adjacent bytes are both '.' or '/',
// which covers "..", "./", "/." and "//".
func hasIllegalPattern(path string) bool {
	for i := 1; i < len(path); i++ {
		if isDotOrSlash(path[i-1]) && isDotOrSlash(path[i]) {
			return true
		}
	}
	return false
}

func isDotOrSlash(b byte) bool { return b == '.' || b == separator }

// parent returns the ancestor of an absolute path, or "" once the next
// ancestor would be the root.
func parent(path string) string {
	i := strings.LastIndexByte(path, separator)
	if i <= 0 {
		return ""
	}
	return path[:i]
}
