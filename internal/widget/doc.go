// SPDX-License-Identifier: MPL-2.0

// Package widget holds the catalog of utilities the multi-call binary can run
// and resolves a requested name to one of them.
//
// A widget is reachable under its canonical name and its aliases. Resolution
// runs in one of two modes: ExactMatch, used when the binary is invoked
// through an alias link, and PrefixMatch, used for "<program> <widget>",
// which also accepts the unique longest common prefix.
package widget
