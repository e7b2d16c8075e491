// SPDX-License-Identifier: MPL-2.0

package main

import cmd "bookmeta-cli/cmd/bookmeta"

func main() {
	cmd.Execute()
}
