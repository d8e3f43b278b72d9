// SPDX-License-Identifier: MPL-2.0

// Package coreutils implements the widgets of the multi-call binary: cat,
// pathcheck, rm, rmdir, tail, touch and zcat.
//
// Every widget takes exactly one path operand. The path is validated with
// pathguard before the widget touches it, and the follow-up operation goes
// through pathguard.Ops so the validated path is not silently re-resolved
// through a symlink.
package coreutils
