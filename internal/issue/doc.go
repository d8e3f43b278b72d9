// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError attaches the failed operation, the resource involved, and
// remediation hints to an error. The Issue catalog holds Markdown guidance for
// each way a path can be rejected; pathcheck --explain renders it with glamour.
package issue
