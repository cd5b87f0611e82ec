package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a3tai/tradedoc-reader/internal/export"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [file|directory]...",
		Short: "Parse sources and write an XLSX workbook",
		Long: `Parse sources and write the records to an XLSX workbook with an Invoice sheet
and a Packing_List sheet. A sheet is only written when it has records.`,
		Example: `  # Export a shipment folder
  tradedoc-export export ./shipment-4711 --out shipment-4711.xlsx

  # Add up repeated EAN lines on invoices
  tradedoc-export export ./invoices --type invoice --duplicates sum -o invoices.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.EqualFold(filepath.Ext(out), ".xlsx") {
				return fmt.Errorf("output must end in .xlsx: %q", out)
			}

			r, err := newRunner(v, "export")
			if err != nil {
				return err
			}
			batch, err := r.parse(cmd.Context(), args)
			if err != nil {
				return err
			}

			invoices, items := batch.Invoices(), batch.PackingItems()
			if err := export.SaveXLSX(out, invoices, items, export.WithLogger(r.log)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d invoices, %d packing list items written to %s\n",
				summary(batch), len(invoices), len(items), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Workbook path (.xlsx)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
