// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/dmmrun/dmm/cmd/dmm"

func main() {
	cmd.Execute()
}
