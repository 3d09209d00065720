// Command codasai builds and serves narrative guides from a project's
// version-control history.
package main

import (
	"log"

	"github.com/codasai/codasai/cmd/codasai/commands"
)

func main() {
	log.SetFlags(0)
	commands.Execute()
}
