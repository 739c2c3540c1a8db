package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia actual de un producto (relación 1:1 con Product).
// Quantity solo se modifica por la ruta que registra movimientos; nunca queda negativa.
// Los registros de stock no se eliminan: un producto descontinuado queda en cantidad 0.
type Stock struct {
	ID            string
	ProductID     string
	Quantity      int64
	MinStock      int64 // umbral informativo de reposición
	MaxStock      int64 // umbral informativo de sobrestock
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStock indica si la cantidad cayó al umbral mínimo o por debajo.
func (s *Stock) LowStock() bool {
	return s.Quantity <= s.MinStock
}
