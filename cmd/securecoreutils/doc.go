// SPDX-License-Identifier: MPL-2.0

// Package cmd is the command line shell of securecoreutils.
//
// The binary runs in one of two ways. Invoked through a link named after a
// widget or one of its aliases, it runs that widget directly. Otherwise it is
// a cobra root command whose first positional argument selects the widget,
// abbreviated to any unambiguous prefix.
package cmd
