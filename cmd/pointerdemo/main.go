package main

import (
	"os"

	"github.com/petrijr/pointer/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
