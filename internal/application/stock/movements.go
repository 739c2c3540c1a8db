package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
	"github.com/DanielMoranV/master-color-app/pkg/validator"
)

// MovementUseCase registra movimientos manuales de stock (Entrada, Salida,
// Ajuste, Devolucion) y atiende las consultas del historial. Cada registro
// aplica el delta y persiste el movimiento en una sola transacción.
type MovementUseCase struct {
	txRunner  TxRunner
	ledger    *LedgerUseCase
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso. stockRepo y movRepo van atados
// al pool (lecturas); las escrituras pasan por txRunner.
func NewMovementUseCase(
	txRunner TxRunner,
	ledger *LedgerUseCase,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, ledger: ledger, stockRepo: stockRepo, movRepo: movRepo}
}

// RegisterMovement registra un movimiento manual contra un stock: aplica el
// delta con el signo que implica el tipo y guarda el movimiento, todo dentro
// de una transacción. Los tipos que descuentan revalidan disponibilidad bajo
// el bloqueo de fila.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, *dto.StockResponse, error) {
	if actorID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	if in.UnitPrice.IsNegative() {
		return nil, nil, domain.ErrInvalidInput
	}

	stock, err := uc.stockRepo.GetByID(in.StockID)
	if err != nil {
		return nil, nil, err
	}
	if stock == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	delta := entity.MovementDirection(in.Type) * in.Quantity
	var updated *entity.Stock
	var created *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		updated, created, err = uc.ledger.ApplyDeltaInTx(stockRepo, movRepo, stock.ProductID, delta, DeltaMeta{
			Type:      in.Type,
			Reason:    in.Reason,
			UnitPrice: in.UnitPrice,
			Actor:     actorID,
			Voucher:   in.VoucherNumber,
		}, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return toMovementResponse(created), toStockResponse(updated), nil
}

// AdjustStock aplica una corrección manual sobre un stock identificado por su
// ID (conteo físico, merma). Ajuste positivo registra Entrada; negativo,
// Ajuste. El precio unitario del movimiento es el precio de compra vigente.
func (uc *MovementUseCase) AdjustStock(ctx context.Context, actorID, stockID string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}

	stock, err := uc.stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var updated *entity.Stock
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		updated, _, err = uc.ledger.ApplyDeltaInTx(stockRepo, movRepo, stock.ProductID, in.Adjustment, DeltaMeta{
			// Tipo vacío: Entrada si sube, Ajuste si baja.
			Reason:    in.Reason,
			UnitPrice: stock.PurchasePrice,
			Actor:     actorID,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toStockResponse(updated), nil
}

// GetMovement devuelve un movimiento por ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(mov), nil
}

// ListMovements lista el historial con filtros por stock, tipo y rango de fechas.
func (uc *MovementUseCase) ListMovements(ctx context.Context, in dto.MovementListRequest) ([]*dto.MovementResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	in.DefaultPage()
	filter := repository.MovementFilter{
		StockID: in.StockID,
		Type:    in.Type,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}
	if in.FromDate != "" {
		from, err := parseDate(in.FromDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if in.ToDate != "" {
		to, err := parseDate(in.ToDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = endOfDay(to)
		filter.To = &to
	}
	movs, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// Report totaliza los movimientos por tipo en un período.
func (uc *MovementUseCase) Report(ctx context.Context, in dto.MovementReportRequest) (*dto.MovementReportResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	from, err := parseDate(in.FromDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	to, err := parseDate(in.ToDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	to = endOfDay(to)

	rows, err := uc.movRepo.SummarizeByType(from, to, in.StockID)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementReportResponse{From: from, To: to, Rows: make([]dto.MovementReportRow, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.MovementReportRow{
			Type:          r.Type,
			MovementCount: r.MovementCount,
			TotalQuantity: r.TotalQuantity,
		})
	}
	return resp, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		StockID:       m.StockID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		UnitPrice:     m.UnitPrice,
		UserID:        m.UserID,
		VoucherNumber: m.VoucherNumber,
		CreatedAt:     m.CreatedAt,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
