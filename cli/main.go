package main

import (
	"os"

	"github.com/quillorm/quill/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
