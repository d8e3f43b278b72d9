// SPDX-License-Identifier: MPL-2.0

package pathguard

import (
	"errors"
	"io/fs"
)

// Restrictions are the rules every path must satisfy, in the order they are checked.
var Restrictions = []string{
	"File path must begin with a '/' character.",
	"File path may not end with a '/' character.",
	"File path may not be a symlink.",
	"File path may not contain a symlink as part of the path.",
	`File path may not contain "..", "./", "/.", or "//".`,
}

type (
	// Kind is the object type a caller expects a path to name.
	Kind int

	// Code classifies the outcome of a validation.
	Code int

	// Verdict is the outcome of validating one path.
	Verdict struct {
		// Path is the path that was validated, unmodified.
		Path string
		// Code is OK or the first rule the path broke.
		Code Code
		// Expected is the kind the caller asked for. Only meaningful for WrongType.
		Expected Kind
		// Cause is the operating-system error behind NotFound and SystemError.
		Cause error
		// Info is the lstat result of the leaf, or nil when it was not found.
		Info fs.FileInfo
	}
)

const (
	// RegularFile expects a plain file.
	RegularFile Kind = iota + 1
	// Directory expects a directory.
	Directory
)

const (
	// OK means the path may be operated on.
	OK Code = iota
	// NotAbsolute means the path does not begin with a separator.
	NotAbsolute
	// TrailingSeparator means the path ends with a separator.
	TrailingSeparator
	// IllegalPattern means the path contains "..", "./", "/." or "//".
	IllegalPattern
	// WrongType means the leaf is not of the expected kind, or is a symlink.
	WrongType
	// SymlinkInPath means an ancestor of the leaf is a symlink.
	SymlinkInPath
	// NotFound means the leaf or an ancestor does not exist.
	NotFound
	// SystemError means the filesystem query failed for another reason.
	SystemError
)

// String returns the short name of the kind.
func (k Kind) String() string {
	switch k {
	case RegularFile:
		return "regular file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// matches reports whether mode is the kind k names. Symlinks never match.
func (k Kind) matches(mode fs.FileMode) bool {
	switch k {
	case RegularFile:
		return mode.IsRegular()
	case Directory:
		return mode.IsDir()
	default:
		return false
	}
}

// String returns the identifier of the code.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case NotAbsolute:
		return "not-absolute"
	case TrailingSeparator:
		return "trailing-separator"
	case IllegalPattern:
		return "illegal-pattern"
	case WrongType:
		return "wrong-type"
	case SymlinkInPath:
		return "symlink-in-path"
	case NotFound:
		return "not-found"
	case SystemError:
		return "system-error"
	default:
		return "unknown"
	}
}

// OK reports whether the path was accepted.
func (v Verdict) OK() bool { return v.Code == OK }

// Reason returns the human-readable explanation of a rejection.
// It is empty for an accepted path.
func (v Verdict) Reason() string {
	switch v.Code {
	case OK:
		return ""
	case NotAbsolute:
		return "not an absolute path"
	case TrailingSeparator:
		return "path ends with a separator"
	case IllegalPattern:
		return "path contains illegal pattern"
	case WrongType:
		if v.Expected == Directory {
			return "not a directory"
		}
		return "not a regular file"
	case SymlinkInPath:
		return "path contains a symbolic link"
	case NotFound, SystemError:
		return causeText(v.Cause)
	default:
		return "unknown verdict"
	}
}

// Err returns nil for an accepted path and an *Error otherwise.
func (v Verdict) Err() error {
	if v.OK() {
		return nil
	}
	return &Error{Verdict: v}
}

// causeText strips the path from an OS error so it is not repeated.
func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
