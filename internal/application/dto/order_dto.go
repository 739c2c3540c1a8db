package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea de la orden. UnitPrice es opcional: si se omite,
// se toma el precio de venta vigente del stock del producto.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID      string             `json:"client_id" validate:"required"`
	AddressID     string             `json:"address_id" validate:"required"`
	ShippingCost  decimal.Decimal    `json:"shipping_cost"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=Efectivo Tarjeta Yape Plin TC Transferencia"`
	PaymentCode   string             `json:"payment_code" validate:"required"`
	DocumentType  string             `json:"document_type" validate:"required,oneof=Boleta Factura Ticket NC"`
	NCReference   string             `json:"nc_reference,omitempty"`
	Observations  string             `json:"observations,omitempty"`
	Items         []OrderItemRequest `json:"items"`
}

// AdvanceStatusRequest body para PATCH /api/orders/:id/status.
type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse línea de la orden en respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PaymentResponse pago de la orden en respuestas.
type PaymentResponse struct {
	ID           string `json:"id"`
	Method       string `json:"payment_method"`
	Code         string `json:"payment_code"`
	DocumentType string `json:"document_type"`
	NCReference  string `json:"nc_reference,omitempty"`
	Observations string `json:"observations,omitempty"`
}

// OrderResponse orden completa: cabecera, líneas y pago.
// Tax es referencial (18% sobre el subtotal) y no forma parte de Total.
type OrderResponse struct {
	ID           string              `json:"id"`
	ClientID     string              `json:"client_id"`
	AddressID    string              `json:"address_id"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	ShippingCost decimal.Decimal     `json:"shipping_cost"`
	Discount     decimal.Decimal     `json:"discount"`
	Tax          decimal.Decimal     `json:"tax"`
	Total        decimal.Decimal     `json:"total"`
	Observations string              `json:"observations,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	Payment      *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// OrderListRequest filtros para GET /api/orders.
type OrderListRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pendiente confirmado procesando enviado entregado cancelado"`
	ClientID string `query:"client_id"`
	FromDate string `query:"from_date"` // YYYY-MM-DD
	ToDate   string `query:"to_date"`
	PageRequest
}

// OrderStatisticsResponse resumen de órdenes de un período.
type OrderStatisticsResponse struct {
	TotalOrders     int64                `json:"total_orders"`
	TotalSales      decimal.Decimal      `json:"total_sales"`
	PendingOrders   int64                `json:"pending_orders"`
	CompletedOrders int64                `json:"completed_orders"`
	CancelledOrders int64                `json:"cancelled_orders"`
	TopProducts     []TopProductResponse `json:"top_products"`
}

// TopProductResponse fila del ranking de productos más vendidos.
type TopProductResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}
