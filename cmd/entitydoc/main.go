package main

import (
	"os"

	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
