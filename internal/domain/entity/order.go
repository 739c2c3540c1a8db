package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. Avance lineal pendiente → entregado, con transición
// lateral a cancelado desde cualquier estado no terminal.
const (
	OrderStatusPendiente  = "pendiente"
	OrderStatusConfirmado = "confirmado"
	OrderStatusProcesando = "procesando"
	OrderStatusEnviado    = "enviado"
	OrderStatusEntregado  = "entregado"
	OrderStatusCancelado  = "cancelado"
)

// nextOrderStatus define el sucesor inmediato de cada estado del flujo lineal.
var nextOrderStatus = map[string]string{
	OrderStatusPendiente:  OrderStatusConfirmado,
	OrderStatusConfirmado: OrderStatusProcesando,
	OrderStatusProcesando: OrderStatusEnviado,
	OrderStatusEnviado:    OrderStatusEntregado,
}

// ValidOrderStatus reporta si el estado es uno de los seis conocidos.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPendiente, OrderStatusConfirmado, OrderStatusProcesando,
		OrderStatusEnviado, OrderStatusEntregado, OrderStatusCancelado:
		return true
	}
	return false
}

// TerminalOrderStatus reporta si el estado no admite más transiciones.
func TerminalOrderStatus(s string) bool {
	return s == OrderStatusCancelado || s == OrderStatusEntregado
}

// NextOrderStatus devuelve el sucesor inmediato en el flujo lineal, si existe.
func NextOrderStatus(s string) (string, bool) {
	next, ok := nextOrderStatus[s]
	return next, ok
}

// CanAdvanceTo valida una transición del flujo lineal (no cubre la cancelación,
// que tiene su propia operación porque revierte el stock).
func CanAdvanceTo(from, to string) bool {
	next, ok := nextOrderStatus[from]
	return ok && next == to
}

// Order es la cabecera de una venta: cliente, dirección de envío, montos y estado.
// Posee sus OrderDetail y su Payment (se crean y consultan como una sola unidad).
// ArchivedAt es el marcador de borrado lógico, independiente del estado de negocio;
// las lecturas lo excluyen por defecto.
type Order struct {
	ID           string
	UserID       string // usuario que registró la orden
	ClientID     string
	AddressID    string
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	Status       string
	Observations string
	ArchivedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Total devuelve el monto a pagar: subtotal + envío - descuento.
// Se calcula siempre, nunca se almacena, para que no pueda divergir.
func (o *Order) Total() decimal.Decimal {
	return o.Subtotal.Add(o.ShippingCost).Sub(o.Discount)
}

// OrderDetail es una línea de la orden: producto, cantidad y precio unitario
// congelado al momento de la venta.
type OrderDetail struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// LineTotal devuelve cantidad × precio unitario.
func (d *OrderDetail) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(d.Quantity).Mul(d.UnitPrice)
}

// Métodos de pago y tipos de comprobante aceptados (catálogo del original).
var (
	PaymentMethods = []string{"Efectivo", "Tarjeta", "Yape", "Plin", "TC", "Transferencia"}
	DocumentTypes  = []string{"Boleta", "Factura", "Ticket", "NC"}
)

// Payment es el registro de pago de una orden (exactamente uno por orden).
type Payment struct {
	ID           string
	OrderID      string
	Method       string
	Code         string
	DocumentType string
	NCReference  string // referencia de nota de crédito, si aplica
	Observations string
	CreatedAt    time.Time
}
