package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/williambl/vampilang/pkg/ioctx"
)

// Config holds the flags shared by every command
type Config struct {
	Debug  bool
	Config string
	Expect string
}

func main() {
	ctx := ioctx.WithStreams(context.Background(), ioctx.Streams{Out: os.Stdout, Err: os.Stderr})
	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, errorStyle.Render(describeError(err)))
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "vamp",
		Short: "Vampilang expression tool",
		Long: `Vampilang is a small statically-typed expression language for
configuration files. Programs are JSON, YAML or TOML documents that are
type-checked against a set of declared variables before they run.`,
		Example: `  # Evaluate a program with the variables from vamp.toml
  vamp eval rule.json

  # Require the program to produce a boolean
  vamp eval --expect boolean rule.yaml

  # Type-check many programs at once
  vamp check rules/*.json

  # List the standard types and functions
  vamp types`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cfg.Debug)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfg.Config, "config", "c", "", "Path to vamp.toml (searched upwards from the working directory if not specified)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Expect, "expect", "e", "", "Type the program must produce, like int or list<string>")

	rootCmd.AddCommand(
		evalCmd(&cfg),
		checkCmd(&cfg),
		fmtCmd(&cfg),
		typesCmd(),
	)
	return rootCmd
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
