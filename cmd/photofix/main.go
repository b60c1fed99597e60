package main

import (
	"os"

	"github.com/Fepozopo/photofix/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
