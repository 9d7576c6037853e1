package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williambl/vampilang/pkg/ioctx"
	"github.com/williambl/vampilang/pkg/stdlib"
)

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the standard types and functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ioctx.Stdout(cmd.Context())
			env := stdlib.NewEnvironment()
			namer := env.Namer()

			fmt.Fprintln(out, headerStyle.Render("Types"))
			for name, t := range env.Types() {
				fmt.Fprintf(out, "  %s %s\n", nameStyle.Render(name), typeStyle.Render(t.Describe(namer)))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, headerStyle.Render("Functions"))
			for _, fn := range env.Functions() {
				fmt.Fprintf(out, "  %s %s\n", nameStyle.Render(fn.Name), typeStyle.Render(fn.Signature.Describe(namer)))
			}
			return nil
		},
	}
}
