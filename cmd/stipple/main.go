package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/internal/cli"
	"github.com/matzehuels/stipple/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var (
		verbose   bool
		logFormat string
	)

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output: text, json or logfmt")

	// The log level is only known once flags are parsed.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return c.SetLogFormat(logFormat)
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		if code := errors.GetCode(err); code != "" {
			c.Logger.Debug("command failed", "code", code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// exitCode maps an error to a process status: 130 for interrupts
// (shell convention for SIGINT), 2 for invalid input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return 130
	case errors.IsInvalid(err):
		return 2
	default:
		return 1
	}
}
