package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"olttstats/internal/errors"
	"olttstats/internal/exporter"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.xlsx",
		Short: "Print the sheets of a summary workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.NewStorageError("read "+args[0], err)
			}
			sheets, err := exporter.Unpack(data)
			if err != nil {
				return err
			}
			return printSheets(cmd.OutOrStdout(), sheets)
		},
	}
}

// printSheets writes each sheet as an aligned table; NaN cells stay blank
func printSheets(w io.Writer, sheets []exporter.Sheet) error {
	for i, sheet := range sheets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s]\n", sheet.Name)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "\t%s\n", strings.Join(sheet.Table.Columns, "\t"))
		for r, label := range sheet.Table.Index {
			cells := make([]string, len(sheet.Table.Values[r]))
			for c, v := range sheet.Table.Values[r] {
				if !math.IsNaN(v) {
					cells[c] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			}
			fmt.Fprintf(tw, "%s\t%s\n", label, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
