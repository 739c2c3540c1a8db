package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// DeltaMeta describe el movimiento que acompaña un cambio de cantidad.
// Si Type está vacío se deriva del signo del delta: Entrada al alza,
// Ajuste a la baja.
type DeltaMeta struct {
	Type      string
	Reason    string
	UnitPrice decimal.Decimal
	Actor     string
	Voucher   string
}

// LedgerUseCase es el único camino legal para mutar cantidades de stock.
// Cada delta aplicado genera exactamente un StockMovement en la misma
// transacción; la no-negatividad se revalida bajo el bloqueo de fila.
type LedgerUseCase struct {
	stockRepo repository.StockRepository // atado al pool, solo lecturas advisory
}

// NewLedgerUseCase construye el caso de uso con un repositorio de solo lectura
// (atado al pool) para las verificaciones previas a la transacción.
func NewLedgerUseCase(stockRepo repository.StockRepository) *LedgerUseCase {
	return &LedgerUseCase{stockRepo: stockRepo}
}

// Reserve verifica disponibilidad sin mutar estado. Es una comprobación
// advisory para fallar rápido antes de abrir la transacción: la verificación
// autoritativa ocurre de nuevo en ApplyDeltaInTx bajo el bloqueo de fila.
func (uc *LedgerUseCase) Reserve(ctx context.Context, productID string, quantity int64) (*entity.Stock, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	stock, err := uc.stockRepo.GetByProductID(productID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	if quantity > stock.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: stock.Quantity,
		}
	}
	return stock, nil
}

// ApplyDeltaInTx ajusta la cantidad del stock de un producto y registra el
// movimiento correspondiente, usando los repositorios del caller (misma
// transacción). Bloquea la fila de stock, revalida que el resultado no sea
// negativo y persiste cantidad + movimiento. Delta positivo repone, negativo
// descuenta. Devuelve el stock actualizado y el movimiento creado.
func (uc *LedgerUseCase) ApplyDeltaInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productID string,
	delta int64,
	meta DeltaMeta,
	now time.Time,
) (*entity.Stock, *entity.StockMovement, error) {
	if delta == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	stock, err := stockRepo.GetByProductIDForUpdate(productID)
	if err != nil {
		return nil, nil, err
	}
	if stock == nil {
		return nil, nil, domain.ErrNotFound
	}

	movType := meta.Type
	if movType == "" {
		if delta > 0 {
			movType = entity.MovementTypeEntrada
		} else {
			movType = entity.MovementTypeAjuste
		}
	}
	if !entity.ValidMovementType(movType) {
		return nil, nil, domain.ErrInvalidInput
	}
	// La dirección implícita del tipo debe coincidir con el signo del delta.
	if dir := entity.MovementDirection(movType); (delta > 0) != (dir > 0) {
		return nil, nil, domain.ErrInvalidInput
	}

	newQuantity := stock.Quantity + delta
	if newQuantity < 0 {
		return nil, nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: -delta,
			Available: stock.Quantity,
		}
	}

	stock.Quantity = newQuantity
	stock.UpdatedAt = now
	if err := stockRepo.UpdateQuantity(stock); err != nil {
		return nil, nil, err
	}

	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		StockID:       stock.ID,
		Type:          movType,
		Quantity:      magnitude,
		Reason:        meta.Reason,
		UnitPrice:     meta.UnitPrice,
		UserID:        meta.Actor,
		VoucherNumber: meta.Voucher,
		CreatedAt:     now,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, nil, err
	}
	return stock, movement, nil
}
