package entity

import "time"

// Customer cliente registrado; Category alimenta el reporte de distribución
// (p. ej. "eceran", "grosir", "warung").
type Customer struct {
	ID        string
	Name      string
	Category  string
	Phone     string
	CreatedAt time.Time
}
