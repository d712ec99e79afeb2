package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jhoicas/pos-beras/internal/application/report"
	"github.com/spf13/cobra"
)

// NewReconcileCommand crea el comando reconcile: verifica movimientos + devoluciones - vendido = stock.
// Termina con error si algún producto está descuadrado.
func NewReconcileCommand(opts *RootOptions) *cobra.Command {
	var productID string
	cmd := &cobra.Command{
		Use:          "reconcile",
		Short:        "Conciliar el stock contra el historial de movimientos",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			agg := report.NewAggregator(b.Reports, opts.cfg.App.Location(), opts.cfg.Report.TopN)
			rows, err := agg.Reconcile(ctx, productID)
			if err != nil {
				return err
			}
			drifted := 0
			for _, r := range rows {
				if !r.Balanced {
					drifted++
					opts.log.Warn().Str("product_id", r.ProductID).Int64("drift", r.Drift).Msg("stock descuadrado")
				}
			}

			if opts.Format == "json" {
				if err := writeJSON(cmd.OutOrStdout(), rows); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PRODUCTO\tMOVIMIENTOS\tDEVUELTO\tVENDIDO\tESPERADO\tEN STOCK\tDIFERENCIA\t")
				for _, r := range rows {
					printer.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
						r.ProductName, r.Movements, r.ReturnedIn-r.ReturnedOut, r.Sold, r.Expected, r.OnHand, r.Drift)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if drifted > 0 {
				return fmt.Errorf("%d producto(s) descuadrado(s)", drifted)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "conciliar un solo producto")
	return cmd
}

// NewSummaryCommand crea el comando summary: totales del período en Rupiah.
func NewSummaryCommand(opts *RootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:          "summary",
		Short:        "Resumen de ventas del período (por defecto hoy)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			agg := report.NewAggregator(b.Reports, opts.cfg.App.Location(), opts.cfg.Report.TopN)
			r, err := agg.Range(from, to)
			if err != nil {
				return err
			}
			s, err := agg.Summary(ctx, r)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Período:               %s a %s\n", s.Range.From, s.Range.To)
			fmt.Fprintf(out, "Ventas brutas:         %s\n", rupiah(s.GrossSales))
			fmt.Fprintf(out, "Devoluciones clientes: %s\n", rupiah(s.SaleReturns))
			fmt.Fprintf(out, "Ventas netas:          %s\n", rupiah(s.NetSales))
			fmt.Fprintf(out, "Ticket promedio:       %s\n", rupiah(s.AverageTicket))
			fmt.Fprintf(out, "Utilidad:              %s (%d%%)\n", rupiah(s.Profit), s.MarginPct)
			printer.Fprintf(out, "Transacciones:         %d (%d unidades)\n", s.Transactions, s.UnitsSold)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "fecha inicial YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "fecha final YYYY-MM-DD")
	return cmd
}
