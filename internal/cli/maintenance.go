package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jask/payrecon/internal/service"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", arg)
	}
	return id, nil
}

func notFound(id int64, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return fmt.Errorf("transaction %d not found", id)
	}
	return err
}

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := root.app.Maintenance.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), views)
			return nil
		},
	}
}

func newShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a transaction with its client, platform and invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := root.app.Maintenance.LoadForEdit(cmd.Context(), id)
			if err != nil {
				return notFound(id, err)
			}
			printDetail(cmd.OutOrStdout(), *d)
			return nil
		},
	}
}

func newDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction; its client, platform and invoice are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := root.app.Maintenance.Delete(cmd.Context(), id); err != nil {
				return notFound(id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("deleted transaction %d", id)))
			return nil
		},
	}
}

func newImportsCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List recent import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := root.app.Maintenance.ListImports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printImports(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")
	return cmd
}

// editFlags binds one flag per editable field. Only flags given on the
// command line replace the stored value.
var editFlags = []struct {
	name  string
	usage string
	field func(*service.EditInput) *string
}{
	{"name", "client name", func(in *service.EditInput) *string { return &in.Name }},
	{"identification", "client identification", func(in *service.EditInput) *string { return &in.Identification }},
	{"address", "client address", func(in *service.EditInput) *string { return &in.Address }},
	{"phone", "client phone number", func(in *service.EditInput) *string { return &in.Phone }},
	{"email", "client email", func(in *service.EditInput) *string { return &in.Email }},
	{"platform", "platform name", func(in *service.EditInput) *string { return &in.PlatformName }},
	{"invoice", "invoice number", func(in *service.EditInput) *string { return &in.InvoiceNumber }},
	{"billing-period", "invoice billing period (date)", func(in *service.EditInput) *string { return &in.BillingPeriod }},
	{"amount-billed", "invoice amount billed", func(in *service.EditInput) *string { return &in.AmountBilled }},
	{"code", "transaction code", func(in *service.EditInput) *string { return &in.Code }},
	{"datetime", "transaction date and time", func(in *service.EditInput) *string { return &in.Datetime }},
	{"amount", "transaction amount", func(in *service.EditInput) *string { return &in.Amount }},
	{"status", "transaction status", func(in *service.EditInput) *string { return &in.Status }},
	{"type", "transaction type", func(in *service.EditInput) *string { return &in.Type }},
	{"amount-paid", "transaction amount paid", func(in *service.EditInput) *string { return &in.AmountPaid }},
}

func newEditCmd(root *rootOptions) *cobra.Command {
	values := make([]string, len(editFlags))
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a transaction together with its client, platform and invoice",
		Long: `edit overwrites the transaction and the client, platform and invoice it
links to. Fields not given as flags keep their stored value. Changes to a
client, platform or invoice are visible to every transaction sharing it.`,
		Example: `  payrecon edit 12 --amount-billed 1500.00
  payrecon edit 12 --status Completado --amount-paid "1.500,00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			d, err := root.app.Maintenance.LoadForEdit(ctx, id)
			if err != nil {
				return notFound(id, err)
			}
			in := service.EditInputFrom(*d)
			changed := 0
			for i, f := range editFlags {
				if cmd.Flags().Changed(f.name) {
					*f.field(&in) = values[i]
					changed++
				}
			}
			if changed == 0 {
				return errors.New("nothing to change: pass at least one field flag")
			}

			res, err := root.app.Maintenance.Edit(ctx, id, in)
			if err != nil {
				return notFound(id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(
				"updated transaction %d (clients %d, platforms %d, invoices %d, transactions %d)",
				id, res.Clients, res.Platforms, res.Invoices, res.Transactions)))
			return nil
		},
	}
	for i, f := range editFlags {
		cmd.Flags().StringVar(&values[i], f.name, "", f.usage)
	}
	return cmd
}
