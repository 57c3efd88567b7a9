package main

import (
	"os"

	"github.com/jaekyeom/dayrecap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
