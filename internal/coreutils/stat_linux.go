// SPDX-License-Identifier: MPL-2.0

//go:build linux

package coreutils

import (
	"io/fs"
	"syscall"
	"time"
)

// fileOwner returns the uid owning the file described by info.
func fileOwner(info fs.FileInfo) (uid int, ok bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int(st.Uid), true
}

// accessTime returns the last access time recorded in info, falling back to
// the modification time when the platform data is unavailable.
func accessTime(info fs.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec)) //nolint:unconvert // 32-bit platforms
}
