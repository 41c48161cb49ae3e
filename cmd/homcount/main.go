// Command homcount counts graph homomorphisms over nice tree decompositions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/internal/cli"
	apperrors "github.com/matzehuels/homcount/pkg/errors"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	var verbose, quiet bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine details at debug level")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print results and warnings only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogWarn)
			c.SetQuiet(true)
		}
		return loadConfig(cmd, args)
	}

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}

	fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
	code := apperrors.ExitCode(err)
	if code == apperrors.ExitInput && cmd != nil {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return code
}
