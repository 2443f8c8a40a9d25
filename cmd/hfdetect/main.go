package main

import (
	"fmt"
	"os"

	"github.com/sumit756492/Hidden-File-Detector/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hfdetect: %v\n", err)
		os.Exit(1)
	}
}
