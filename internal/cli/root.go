// Package cli implementa posctl, la herramienta de administración de la caja:
// migraciones, carga de catálogo, conciliación de stock y emisión de tokens.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/pos-beras/internal/infrastructure/storage"
	"github.com/jhoicas/pos-beras/pkg/config"
	"github.com/jhoicas/pos-beras/pkg/logger"
	"github.com/spf13/cobra"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	Driver     string
	SQLitePath string
	Format     string // "text" | "json"
	Verbose    bool

	cfg *config.Config
	log *logger.Logger
}

// ValidFormats formatos de salida permitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand crea el comando raíz de posctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "Administración del POS de la tienda de arroz",
		Long:  "Herramienta de línea de comandos para migrar el esquema, cargar el catálogo, conciliar el stock y emitir tokens de acceso.",
		// main imprime el error
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("formato inválido %q: debe ser uno de %v", opts.Format, ValidFormats)
			}
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "almacenamiento (postgres|sqlite); por defecto DB_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "archivo SQLite; por defecto SQLITE_PATH")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log detallado")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// load lee la configuración y aplica los flags que la sobrescriben.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Driver != "" {
		cfg.DB.Driver = o.Driver
	}
	if o.SQLitePath != "" {
		cfg.DB.SQLitePath = o.SQLitePath
	}
	o.cfg = cfg

	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	o.log = logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
	return nil
}

// open abre el almacenamiento configurado.
func (o *RootOptions) open(ctx context.Context) (*storage.Backend, error) {
	return storage.Open(ctx, o.cfg.DB, o.cfg.Store.TxTimeout, o.log.Zerolog())
}
