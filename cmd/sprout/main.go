package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/diogenes-ai-code/sprout/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatErrorMessage(err))
		os.Exit(cli.ExitCode(err))
	}
}
