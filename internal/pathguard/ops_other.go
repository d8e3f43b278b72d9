// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package pathguard

// SecureOpsSupported reports whether NewOps(true) resolves paths by descriptor.
const SecureOpsSupported = false

func newSecureOps() Ops { return directOps{} }
