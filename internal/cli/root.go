package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/payrecon/internal/config"
	"github.com/jask/payrecon/internal/logger"
)

// noStorage marks commands that run without opening the database.
const noStorage = "no-storage"

type rootOptions struct {
	verbose bool
	dbPath  string
	app     *App
}

// NewRootCmd builds the payrecon command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "payrecon",
		Short: "Import payment spreadsheets and maintain the reconciled records",
		Long: `payrecon reads CSV or XLSX exports of payment transactions and reconciles
every row into clients, platforms, invoices and transactions. Clients,
platforms and invoices are reused when they already exist; every row adds
one transaction.

Configuration is read from $HOME/.config/payrecon/config.toml (or the file
named by PAYRECON_CONFIG) and PAYRECON_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.Database.Path = opts.dbPath
			}

			log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if opts.verbose {
				log = log.Level(zerolog.DebugLevel)
			}
			ctx := logger.WithContext(cmd.Context(), log)
			cmd.SetContext(ctx)

			if cmd.Annotations[noStorage] != "" {
				return nil
			}
			opts.app, err = OpenApp(ctx, cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.app.Close()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every row")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file (overrides config)")

	cmd.AddCommand(
		newImportCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newImportsCmd(opts),
		newSampleCmd(),
	)
	return cmd
}
