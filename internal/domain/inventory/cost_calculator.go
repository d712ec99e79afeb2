package inventory

import (
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// El resultado se redondea a la unidad monetaria.
func CostCalculator(stockActual int64, costoActual entity.Money, cantEntrada int64, costoEntrada entity.Money) entity.Money {
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return 0
	}
	num := decimal.NewFromInt(stockActual).Mul(costoActual.Decimal()).
		Add(decimal.NewFromInt(cantEntrada).Mul(costoEntrada.Decimal()))
	return entity.Money(num.Div(decimal.NewFromInt(sum)).Round(0).IntPart())
}
