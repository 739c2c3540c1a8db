package repository

import (
	"time"

	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
)

// MovementFilter acota los listados de movimientos.
type MovementFilter struct {
	StockID string
	Type    string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// MovementSummary agrega cantidades por tipo de movimiento en un período.
type MovementSummary struct {
	Type          string
	MovementCount int64
	TotalQuantity int64
}

// StockMovementRepository define el puerto de persistencia para StockMovement.
// Solo Create y lecturas: los movimientos son inmutables, el puerto no ofrece
// Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	// SummarizeByType totaliza movimientos por tipo en un rango de fechas,
	// opcionalmente restringido a un stock.
	SummarizeByType(from, to time.Time, stockID string) ([]MovementSummary, error)
}
