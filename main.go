// SPDX-License-Identifier: MPL-2.0

// clamshell is a persistent single-user command shell over an in-memory
// filesystem.
package main

import cmd "clamshell/cmd/clamshell"

func main() {
	cmd.Execute()
}
