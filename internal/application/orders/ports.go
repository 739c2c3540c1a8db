package orders

import (
	"context"
	"time"

	"github.com/DanielMoranV/master-color-app/internal/application/stock"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de órdenes y de stock. Toda la creación/cancelación de una
// orden (cabecera, líneas, pago, deltas de stock y movimientos) se confirma
// o se descarta como una sola unidad.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockLedger es el puerto hacia el libro de stock. Reserve es la verificación
// advisory previa a la transacción; ApplyDeltaInTx ejecuta el descuento o la
// reposición usando los repositorios del caller (misma transacción), donde la
// disponibilidad se revalida bajo el bloqueo de fila.
type StockLedger interface {
	Reserve(ctx context.Context, productID string, quantity int64) (*entity.Stock, error)
	ApplyDeltaInTx(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		productID string,
		delta int64,
		meta stock.DeltaMeta,
		now time.Time,
	) (*entity.Stock, *entity.StockMovement, error)
}
