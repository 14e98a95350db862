package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/ctxdump/cmd/ctxdump"
	"github.com/arthur-debert/ctxdump/pkg/ui/styles"
)

func main() {
	rootCmd := ctxdump.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
