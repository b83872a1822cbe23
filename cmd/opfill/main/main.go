package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/opfill/cmd/opfill"
	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/style"
)

func main() {
	style.ConfigureOutput(os.Stdout)

	rootCmd := opfill.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errStyle := style.StatusStyle(style.StatusError)
		fmt.Fprintln(os.Stderr, errStyle.Sprintf("Error: %v", err))

		// Usage mistakes get the help text and a distinct exit code;
		// operational failures (missing secrets, write errors) exit 1.
		if errors.IsErrorCode(err, errors.ErrUsage) {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Help()
			os.Exit(2)
		}
		os.Exit(1)
	}
}
