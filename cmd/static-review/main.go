package main

import (
	"os"

	"github.com/sprite-ai/staticreview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
