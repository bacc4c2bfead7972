package main

import (
	"os"

	"github.com/ndnfw/planes/fw/cmd"
)

func main() {
	if err := cmd.CmdPlanesd.Execute(); err != nil {
		os.Exit(1)
	}
}
