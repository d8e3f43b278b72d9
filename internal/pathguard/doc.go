// SPDX-License-Identifier: MPL-2.0

// Package pathguard decides whether a caller-supplied path may be operated on.
//
// A path is accepted only when it is absolute, carries no trailing separator,
// contains none of the sequences "..", "./", "/." or "//", names an object of
// the expected kind, and has no symbolic link anywhere along it. Validation
// never follows links: every component is inspected with lstat.
//
// Validation on its own is check-then-use. Ops narrows that window by
// resolving accepted paths one directory descriptor at a time with
// O_NOFOLLOW on platforms that support it.
package pathguard
