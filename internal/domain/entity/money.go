package entity

import "github.com/shopspring/decimal"

// Money monto en unidades mínimas de la moneda (Rupiah enteros). Las sumas de
// muchas líneas pequeñas se hacen en enteros para no acumular error de redondeo.
type Money int64

// Decimal convierte el monto para cálculos de razón (porcentajes, promedios).
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// Times multiplica un precio unitario por una cantidad.
func (m Money) Times(qty int64) Money {
	return m * Money(qty)
}

// Percent devuelve part/total en porcentaje entero, redondeado a la unidad más cercana.
// total cero devuelve 0.
func Percent(part, total int64) int64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}
