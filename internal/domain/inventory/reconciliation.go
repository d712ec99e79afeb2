package inventory

// Reconciliation identidad de conservación de un producto:
// movimientos (entradas, traslados, ajustes) + devoluciones - vendido = stock actual.
// El stock inicial se registra como ajuste, por lo que la suma parte de cero.
type Reconciliation struct {
	ProductID   string
	ProductName string
	Movements   int64 // suma de deltas de stock_movements
	ReturnedIn  int64 // devoluciones de clientes (+)
	ReturnedOut int64 // devoluciones a proveedor (-), en valor absoluto
	Sold        int64 // unidades vendidas
	OnHand      int64 // cantidad actual en products
}

// Expected cantidad que debería haber según el historial.
func (r Reconciliation) Expected() int64 {
	return r.Movements + r.ReturnedIn - r.ReturnedOut - r.Sold
}

// Drift diferencia entre lo que hay y lo que debería haber; 0 si cuadra.
func (r Reconciliation) Drift() int64 {
	return r.OnHand - r.Expected()
}

// Balanced indica si el historial justifica exactamente el stock actual.
func (r Reconciliation) Balanced() bool {
	return r.Drift() == 0
}
