package main

import (
	"fmt"
	"os"

	"github.com/conneroisu/embedloader/cmd"
	"github.com/conneroisu/embedloader/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.FormatError(err))
		os.Exit(1)
	}
}
