package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. Se conservan los valores del esquema original
// para compatibilidad con los datos existentes.
const (
	MovementTypeEntrada    = "Entrada"    // ingreso (compra, reposición, ajuste al alza)
	MovementTypeSalida     = "Salida"     // salida por venta
	MovementTypeAjuste     = "Ajuste"     // corrección manual a la baja (merma, inventario físico)
	MovementTypeDevolucion = "Devolucion" // retorno de stock por cancelación de orden
)

// ValidMovementType reporta si el tipo es uno de los cuatro conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste, MovementTypeDevolucion:
		return true
	}
	return false
}

// MovementDirection devuelve +1 si el tipo incrementa la cantidad y -1 si la reduce.
func MovementDirection(t string) int64 {
	switch t {
	case MovementTypeEntrada, MovementTypeDevolucion:
		return 1
	default:
		return -1
	}
}

// StockMovement es el registro inmutable de un cambio de cantidad en un Stock.
// Quantity es siempre la magnitud (> 0); la dirección la determina Type.
// Nunca se actualiza ni se elimina después de creado (auditoría).
type StockMovement struct {
	ID            string
	StockID       string
	Type          string
	Quantity      int64
	Reason        string
	UnitPrice     decimal.Decimal // precio unitario al momento del movimiento
	UserID        string          // actor que ejecutó el movimiento
	VoucherNumber string          // referencia opcional (ej. ID de la orden)
	CreatedAt     time.Time
}
