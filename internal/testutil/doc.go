// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// TempDir returns a scratch directory whose path is free of symlinks, so the
// path validator accepts it. The Must* helpers build fixtures beneath it.
package testutil
