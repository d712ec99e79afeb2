package inventory

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// SaleCodeGenerator genera códigos legibles de venta: prefijo + ddmmyyyy + 4 dígitos aleatorios.
// La unicidad la garantiza la restricción UNIQUE de la tabla; ante colisión se pide otro código.
type SaleCodeGenerator struct {
	Prefix   string
	Location *time.Location
	// Intn devuelve un entero en [0, n). Nil usa math/rand/v2.
	Intn func(n int) int
}

// Next devuelve un código para el instante dado.
func (g SaleCodeGenerator) Next(at time.Time) string {
	loc := g.Location
	if loc == nil {
		loc = time.UTC
	}
	intn := g.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return fmt.Sprintf("%s%s%04d", g.Prefix, at.In(loc).Format("02012006"), intn(10000))
}
