// SPDX-License-Identifier: MPL-2.0

package pathguard

import "errors"

var (
	// ErrEmptyPath is returned when validation is asked to judge an empty path.
	ErrEmptyPath = errors.New("empty path")

	// ErrNotAbsolute is the sentinel for NotAbsolute verdicts.
	ErrNotAbsolute = errors.New("not an absolute path")
	// ErrTrailingSeparator is the sentinel for TrailingSeparator verdicts.
	ErrTrailingSeparator = errors.New("path ends with a separator")
	// ErrIllegalPattern is the sentinel for IllegalPattern verdicts.
	ErrIllegalPattern = errors.New("path contains illegal pattern")
	// ErrWrongType is the sentinel for WrongType verdicts.
	ErrWrongType = errors.New("wrong file type")
	// ErrSymlinkInPath is the sentinel for SymlinkInPath verdicts.
	ErrSymlinkInPath = errors.New("path contains a symbolic link")
	// ErrNotFound is the sentinel for NotFound verdicts.
	ErrNotFound = errors.New("path not found")
	// ErrSystem is the sentinel for SystemError verdicts.
	ErrSystem = errors.New("filesystem query failed")
)

// Error is a rejected Verdict used as an error.
// It unwraps to the sentinel for its code and, when present, the OS error.
type Error struct {
	Verdict Verdict
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Verdict.Path + ": " + e.Verdict.Reason()
}

// Unwrap returns the code sentinel followed by the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{sentinelFor(e.Verdict.Code)}
	if e.Verdict.Cause != nil {
		errs = append(errs, e.Verdict.Cause)
	}
	return errs
}

func sentinelFor(c Code) error {
	switch c {
	case NotAbsolute:
		return ErrNotAbsolute
	case TrailingSeparator:
		return ErrTrailingSeparator
	case IllegalPattern:
		return ErrIllegalPattern
	case WrongType:
		return ErrWrongType
	case SymlinkInPath:
		return ErrSymlinkInPath
	case NotFound:
		return ErrNotFound
	default:
		return ErrSystem
	}
}
