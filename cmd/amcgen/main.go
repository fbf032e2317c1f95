package main

import (
	"fmt"
	"os"

	"amc_simulator/cmd/amcgen/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
