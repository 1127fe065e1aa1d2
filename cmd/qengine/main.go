package main

import (
	"os"

	"github.com/netrixframework/qengine/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
