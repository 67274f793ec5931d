package main

import (
	"os"

	"github.com/abhisek/studypack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
