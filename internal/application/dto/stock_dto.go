package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockRequest body para POST /api/stocks (alta inicial, una por producto).
type CreateStockRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      int64           `json:"quantity" validate:"min=0"`
	MinStock      int64           `json:"min_stock" validate:"min=0"`
	MaxStock      int64           `json:"max_stock" validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// UpdateStockRequest body para PUT /api/stocks/:id. No toca la cantidad:
// esa solo cambia por la ruta de movimientos.
type UpdateStockRequest struct {
	MinStock      int64           `json:"min_stock" validate:"min=0"`
	MaxStock      int64           `json:"max_stock" validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// AdjustStockRequest body para POST /api/stocks/:id/adjust (corrección manual).
type AdjustStockRequest struct {
	Adjustment int64  `json:"adjustment" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

// RegisterMovementRequest body para POST /api/stock-movements.
type RegisterMovementRequest struct {
	StockID       string          `json:"stock_id" validate:"required"`
	Type          string          `json:"movement_type" validate:"required,oneof=Entrada Salida Ajuste Devolucion"`
	Quantity      int64           `json:"quantity" validate:"required,min=1"`
	Reason        string          `json:"reason" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	VoucherNumber string          `json:"voucher_number,omitempty"`
}

// StockResponse existencia de un producto en respuestas.
type StockResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	MinStock      int64           `json:"min_stock"`
	MaxStock      int64           `json:"max_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	LowStock      bool            `json:"low_stock"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MovementResponse movimiento de stock en respuestas.
type MovementResponse struct {
	ID            string          `json:"id"`
	StockID       string          `json:"stock_id"`
	Type          string          `json:"movement_type"`
	Quantity      int64           `json:"quantity"`
	Reason        string          `json:"reason"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UserID        string          `json:"user_id"`
	VoucherNumber string          `json:"voucher_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListRequest filtros para GET /api/stock-movements.
type MovementListRequest struct {
	StockID  string `query:"stock_id"`
	Type     string `query:"movement_type" validate:"omitempty,oneof=Entrada Salida Ajuste Devolucion"`
	FromDate string `query:"from_date"`
	ToDate   string `query:"to_date"`
	PageRequest
}

// MovementReportRequest filtros para GET /api/stock-movements/report.
type MovementReportRequest struct {
	FromDate string `query:"from_date" validate:"required"`
	ToDate   string `query:"to_date" validate:"required"`
	StockID  string `query:"stock_id"`
}

// MovementReportRow totales por tipo de movimiento.
type MovementReportRow struct {
	Type          string `json:"movement_type"`
	MovementCount int64  `json:"movement_count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// MovementReportResponse reporte de movimientos de un período.
type MovementReportResponse struct {
	From time.Time           `json:"from"`
	To   time.Time           `json:"to"`
	Rows []MovementReportRow `json:"rows"`
}
