package main

import (
	"os"

	"github.com/cristianoliveira/questterm/cmd"
	"github.com/cristianoliveira/questterm/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		errors.NewDefaultCLIHandler().Error(err.Error())
		os.Exit(1)
	}
}
