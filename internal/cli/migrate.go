package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand crea el comando migrate.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Crear las tablas si no existen",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Migrate(ctx); err != nil {
				return err
			}
			opts.log.Info().Str("driver", b.Driver).Msg("esquema aplicado")
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"driver": b.Driver, "status": "ok"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "esquema aplicado (%s)\n", b.Driver)
			return nil
		},
	}
}
