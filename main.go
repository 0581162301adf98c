package main

import (
	"context"
	"os"

	"github.com/secmon-lab/badgeforge/pkg/cli"
	_ "go.uber.org/automaxprocs"
)

var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
