package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a3tai/tradedoc-reader/internal/export"
)

func newParseCmd(v *viper.Viper) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "parse [file|directory]...",
		Short: "Parse sources and print the results as JSON",
		Example: `  # Parse every source in the current directory
  tradedoc-export parse

  # Parse two files as packing lists into a file
  tradedoc-export parse "0001 PL.pdf" "0002 PL.pdf" --type packing_list --out results.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(v, "parse")
			if err != nil {
				return err
			}
			batch, err := r.parse(cmd.Context(), args)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := export.WriteJSON(w, batch); err != nil {
				return fmt.Errorf("write results: %w", err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), summary(batch))
			if batch.Succeeded == 0 {
				return errors.New("no source could be parsed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write JSON to this file instead of stdout")
	return cmd
}
