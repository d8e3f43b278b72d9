// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/securecoreutils/config.cue
// (~/.config/securecoreutils/config.cue when XDG_CONFIG_HOME is unset), or from
// the file named by $SECURECOREUTILS_CONFIG. The config path is held to the same
// rules as widget operands: a config file reached through a symlink is refused.
// A missing config file is not an error; defaults apply.
//
// Values are validated against an embedded CUE schema (config_schema.cue) and
// can be overridden individually with SECURECOREUTILS_* environment variables,
// for example SECURECOREUTILS_TAIL_LINES=20.
package config
