package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/ctxdump/cmd/ctxdump"
	"github.com/arthur-debert/ctxdump/internal/version"
)

func main() {
	rootCmd := ctxdump.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "CTXDUMP",
		Section: "1",
		Source:  "ctxdump " + version.Version,
		Manual:  "ctxdump manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
