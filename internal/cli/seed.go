package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas del CSV de catálogo. Solo name es obligatoria.
var seedColumns = []string{"name", "category", "unit_price", "cost", "min_qty", "opening_qty"}

// catalogRow es una fila del CSV con su número de línea, para reportar errores.
type catalogRow struct {
	inventory.CreateProductRequest
	line int
}

// NewSeedCommand crea el comando seed: carga productos desde un CSV exportado por la caja anterior.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "seed <productos.csv>",
		Short: "Cargar el catálogo de productos desde CSV",
		Long: `Carga productos desde un CSV con encabezado (name, category, unit_price, cost, min_qty, opening_qty).
El stock inicial queda registrado como ajuste, así la conciliación cuadra desde el primer día.
Los montos aceptan el formato local: "Rp 75.000".
Todas las filas se validan antes de escribir: si alguna es inválida no se carga ningún producto.
Cada producto se confirma por separado, así que un fallo de la base a mitad de carga deja
cargadas las filas anteriores; el error indica la fila desde la que hay que reintentar.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()
			rows, err := parseCatalog(f, encoding)
			if err != nil {
				return err
			}
			if err := validateCatalog(rows); err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Migrate(ctx); err != nil {
				return err
			}
			recorder := inventory.NewRecorder(inv.SaleCodeGenerator{Prefix: opts.cfg.Store.SaleCodePrefix, Location: opts.cfg.App.Location()})
			coord := inventory.NewCoordinator(b.Tx, b.Read, recorder, opts.log.Component("coordinator"))

			created := make([]string, 0, len(rows))
			for _, row := range rows {
				row.CreatedBy = "posctl"
				res, err := coord.CreateProduct(ctx, row.CreateProductRequest)
				if err != nil {
					return fmt.Errorf("fila %d (%s): %w", row.line, row.Name, err)
				}
				created = append(created, res.Product.ID)
				opts.log.Debug().Str("product_id", res.Product.ID).Str("name", row.Name).Msg("producto creado")
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"created": len(created), "product_ids": created})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d producto(s) cargado(s)\n", len(created))
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "latin1", "codificación del archivo (latin1|utf8)")
	return cmd
}

// parseCatalog lee el CSV. latin1 decodifica ISO-8859-1, el formato que exporta la caja anterior.
func parseCatalog(r io.Reader, encoding string) ([]catalogRow, error) {
	switch strings.ToLower(encoding) {
	case "latin1", "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "utf8", "utf-8":
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, errors.New("el CSV no tiene columna name")
	}

	var out []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("name") == "" {
			continue
		}
		nums := make(map[string]int64, 4)
		for _, col := range seedColumns[2:] {
			n, err := parseAmount(field(col))
			if err != nil {
				return nil, fmt.Errorf("fila %d, %s: %w", line, col, err)
			}
			nums[col] = n
		}
		out = append(out, catalogRow{line: line, CreateProductRequest: inventory.CreateProductRequest{
			Name:       field("name"),
			Category:   field("category"),
			UnitPrice:  entity.Money(nums["unit_price"]),
			Cost:       entity.Money(nums["cost"]),
			MinQty:     nums["min_qty"],
			OpeningQty: nums["opening_qty"],
		}})
	}
	return out, nil
}

// validateCatalog revisa todas las filas antes de abrir la base.
func validateCatalog(rows []catalogRow) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("fila %d (%s): %w", row.line, row.Name, err)
		}
	}
	return nil
}

// parseAmount acepta enteros con prefijo Rp y puntos de miles; vacío = 0.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp")
	s = strings.NewReplacer(".", "", " ", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
