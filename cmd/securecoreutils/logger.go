// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/bindlebinaries/securecoreutils/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger widgets write to. The level starts
// at warn; the quiet and verbose options move it.
func newLogger(w io.Writer, format config.LogFormat) *log.Logger {
	formatter := log.TextFormatter
	switch format {
	case config.LogFormatJSON:
		formatter = log.JSONFormatter
	case config.LogFormatLogfmt:
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:    programName,
		Formatter: formatter,
		Level:     log.WarnLevel,
	})
}
