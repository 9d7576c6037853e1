package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/williambl/vampilang/pkg/ioctx"
	"github.com/williambl/vampilang/pkg/vtype"
)

func checkCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] file...",
		Short: "Type-check programs without evaluating them",
		Long: `Decode and resolve every program against the variables declared in
vamp.toml. Programs are checked concurrently and every failure is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProject(cfg)
			if err != nil {
				return err
			}
			namer := p.env.Namer()

			results := make([]vtype.Type, len(args))
			failures := make([]error, len(args))
			eg, ctx := errgroup.WithContext(ctx)
			eg.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				eg.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					expr, err := p.decode(path)
					if err != nil {
						failures[i] = err
						return nil
					}
					results[i] = expr.Type()
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			out := ioctx.Stdout(cmd.Context())
			failed := 0
			for i, path := range args {
				if failures[i] != nil {
					failed++
					fmt.Fprintln(out, errorStyle.Render("FAIL ")+path)
					fmt.Fprintln(out, describeError(failures[i]))
					continue
				}
				fmt.Fprintln(out, okStyle.Render("ok   ")+path+dimStyle.Render(" : ")+typeStyle.Render(results[i].Describe(namer)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d programs failed to check", failed, len(args))
			}
			return nil
		},
	}
}
