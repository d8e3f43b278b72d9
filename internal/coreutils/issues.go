// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"errors"

	"github.com/bindlebinaries/securecoreutils/internal/issue"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
)

// IssueFor returns the catalog entry explaining err, if there is one.
func IssueFor(err error) (issue.Id, bool) {
	var pe *pathguard.Error
	switch {
	case errors.As(err, &pe):
		id, ok := verdictIssues[pe.Verdict.Code]
		return id, ok
	case errors.Is(err, ErrBinaryFile):
		return issue.BinaryFileId, true
	case errors.Is(err, ErrUnknownCompression):
		return issue.UnknownCompressionId, true
	default:
		return 0, false
	}
}
