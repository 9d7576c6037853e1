package main

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/williambl/vampilang/pkg/ioctx"
	"github.com/williambl/vampilang/pkg/vamp"
)

func evalCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [flags] file",
		Short: "Type-check and evaluate a program",
		Long: `Decode a program, resolve it against the variables declared in vamp.toml,
and evaluate it with their values. The result is printed as "value : type".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := ioctx.Stdout(ctx)

			p, err := loadProject(cfg)
			if err != nil {
				return err
			}
			expr, err := p.decode(args[0])
			if err != nil {
				return err
			}
			namer := p.env.Namer()
			if cfg.Debug {
				fmt.Fprintln(ioctx.Stderr(ctx), dimStyle.Render(expr.Describe(namer)))
				fmt.Fprintln(ioctx.Stderr(ctx), dimStyle.Render(fmt.Sprintf("%# v", pretty.Formatter(expr))))
			}

			evalCtx, err := p.config.Context(p.env, p.reg, p.spec)
			if err != nil {
				return err
			}
			v, err := vamp.TryEvaluate(expr, evalCtx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, valueStyle.Render(renderPayload(v.Payload))+dimStyle.Render(" : ")+typeStyle.Render(v.Type.Describe(namer)))
			return nil
		},
	}
}
