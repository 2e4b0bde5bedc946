package main

import (
	"fmt"
	"os"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/cmd/bdk-ffi-bindgen/commands"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.Report(err))
		os.Exit(1)
	}
}
