package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
)

// OrderFilter acota los listados de órdenes.
type OrderFilter struct {
	Status   string
	ClientID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// OrderStatistics resume las órdenes de un período.
// TotalSales excluye las canceladas y suma subtotal + envío - descuento.
type OrderStatistics struct {
	TotalOrders     int64
	TotalSales      decimal.Decimal
	PendingOrders   int64
	CompletedOrders int64
	CancelledOrders int64
}

// TopProductResult es una fila del ranking de productos más vendidos.
type TopProductResult struct {
	ProductID     string
	ProductName   string
	TotalQuantity int64
}

// OrderRepository define el puerto de persistencia para la agregación
// Order + OrderDetail + Payment. Las lecturas excluyen órdenes archivadas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateDetail(detail *entity.OrderDetail) error
	CreatePayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Order, error)
	GetDetails(orderID string) ([]*entity.OrderDetail, error)
	GetPayment(orderID string) (*entity.Payment, error)
	UpdateStatus(orderID, status string) error
	UpdateObservations(orderID, observations string) error
	// Archive marca la orden como borrada lógicamente (archived_at); no borra
	// detalles, pago ni movimientos asociados.
	Archive(orderID string, at time.Time) error
	List(filter OrderFilter) ([]*entity.Order, error)
	Statistics(from, to time.Time) (*OrderStatistics, error)
	TopProducts(from, to time.Time, limit int) ([]TopProductResult, error)
}
