package dto

// ReportRangeRequest parámetros de fecha para /api/reports/*. Fechas YYYY-MM-DD inclusivas;
// por defecto hoy en la zona horaria de la tienda.
type ReportRangeRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
	N    int    `query:"n"`
}

// RangeDTO período efectivo del reporte.
type RangeDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SummaryDTO resumen de ventas del período.
type SummaryDTO struct {
	Range           RangeDTO `json:"range"`
	GrossSales      int64    `json:"gross_sales"`
	SaleReturns     int64    `json:"sale_returns"`
	PurchaseReturns int64    `json:"purchase_returns"`
	NetSales        int64    `json:"net_sales"`
	UnitsSold       int64    `json:"units_sold"`
	Transactions    int64    `json:"transactions"`
	AverageTicket   int64    `json:"average_ticket"`
	Profit          int64    `json:"profit"`
	MarginPct       int64    `json:"margin_pct"`
}

// ProductProfitDTO utilidad por producto con el costo capturado al vender.
type ProductProfitDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category,omitempty"`
	Units       int64  `json:"units"`
	Revenue     int64  `json:"revenue"`
	Cost        int64  `json:"cost"`
	Profit      int64  `json:"profit"`
	MarginPct   int64  `json:"margin_pct"`
}

// TopProductDTO posición en el ranking por unidades.
type TopProductDTO struct {
	Rank        int    `json:"rank"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Units       int64  `json:"units"`
	Revenue     int64  `json:"revenue"`
	SharePct    int64  `json:"share_pct"`
}

// CategoryShareDTO participación de una categoría de clientes.
type CategoryShareDTO struct {
	Category  string `json:"category"`
	Customers int64  `json:"customers"`
	Percent   int64  `json:"percent"`
}

// MonthlyDTO acumulado mensual (YYYY-MM en la zona de la tienda).
type MonthlyDTO struct {
	Month        string `json:"month"`
	GrossSales   int64  `json:"gross_sales"`
	SaleReturns  int64  `json:"sale_returns"`
	NetSales     int64  `json:"net_sales"`
	Transactions int64  `json:"transactions"`
}

// ReconciliationDTO identidad de conservación de un producto.
type ReconciliationDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Movements   int64  `json:"movements"`
	ReturnedIn  int64  `json:"returned_in"`
	ReturnedOut int64  `json:"returned_out"`
	Sold        int64  `json:"sold"`
	Expected    int64  `json:"expected"`
	OnHand      int64  `json:"on_hand"`
	Drift       int64  `json:"drift"`
	Balanced    bool   `json:"balanced"`
}
