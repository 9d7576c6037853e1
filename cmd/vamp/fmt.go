package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/williambl/vampilang/pkg/codec"
	"github.com/williambl/vampilang/pkg/ioctx"
)

func fmtCmd(cfg *Config) *cobra.Command {
	var (
		to    string
		write string
	)

	cmd := &cobra.Command{
		Use:   "fmt [flags] file",
		Short: "Re-encode a program",
		Long: `Decode and resolve a program, then encode it again in canonical form.
This also converts between JSON and YAML.`,
		Example: `  # Print a program as YAML
  vamp fmt --to yaml rule.json

  # Convert a program and write the result to a file
  vamp fmt --to json -w rule.json rule.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cfg)
			if err != nil {
				return err
			}
			expr, err := p.decode(args[0])
			if err != nil {
				return err
			}

			enc := codec.NewEncoder(p.reg)
			var data []byte
			switch to {
			case "json":
				data, err = enc.EncodeJSON(expr)
				data = append(data, '\n')
			case "yaml":
				data, err = enc.EncodeYAML(expr)
			default:
				return fmt.Errorf("unknown format %q, expected json or yaml", to)
			}
			if err != nil {
				return err
			}

			if write != "" {
				return os.WriteFile(write, data, 0o644)
			}
			_, err = ioctx.Stdout(cmd.Context()).Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&write, "write", "w", "", "Write the result to this file instead of stdout")

	return cmd
}
