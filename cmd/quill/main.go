package main

import (
	"os"

	"github.com/hashicorp-forge/quill/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
