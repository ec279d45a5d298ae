package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/payrecon/internal/testdata"
)

func newSampleCmd() *cobra.Command {
	var opts testdata.Options
	cmd := &cobra.Command{
		Use:         "sample FILE",
		Short:       "Write a sample payment spreadsheet (.csv or .xlsx)",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{noStorage: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			write := testdata.WriteCSV
			switch strings.ToLower(filepath.Ext(path)) {
			case ".xlsx":
				write = testdata.WriteXLSX
			case ".csv":
			default:
				return fmt.Errorf("sample: %s: want a .csv or .xlsx name", path)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			rows := testdata.Generate(opts)
			if err := write(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("wrote %d rows to %s", len(rows)-1, path)))
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Rows, "rows", 20, "data rows")
	cmd.Flags().IntVar(&opts.Clients, "clients", 5, "distinct clients")
	cmd.Flags().IntVar(&opts.Invoices, "invoices", 0, "distinct invoices (default twice the clients)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	return cmd
}
