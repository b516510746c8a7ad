package main

import (
	"os"

	"github.com/tang-vu/devboot/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
