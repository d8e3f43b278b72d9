// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/bindlebinaries/securecoreutils/cmd/securecoreutils"

func main() {
	cmd.Execute()
}
