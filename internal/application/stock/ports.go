package stock

import (
	"context"

	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de cantidad y el
// movimiento de auditoría se confirmen (o se descarten) juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
