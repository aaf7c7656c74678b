package main

import (
	"os"

	"github.com/kadence-learn/kadence/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
