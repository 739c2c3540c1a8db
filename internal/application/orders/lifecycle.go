package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/application/stock"
	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// CancelOrder cancela una orden no terminal: repone el stock de cada línea con
// un movimiento Devolucion y marca la orden como cancelada, todo en una sola
// transacción. Cancelar una orden ya cancelada (o entregada) falla con
// ErrInvalidTransition y no muta nada, de modo que la reversión ocurre
// exactamente una vez.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, actorID, orderID string) (*dto.OrderResponse, error) {
	if actorID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if entity.TerminalOrderStatus(order.Status) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: entity.OrderStatusCancelado}
	}

	now := time.Now()
	var details []*entity.OrderDetail
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Releer dentro de la transacción: dos cancelaciones concurrentes no
		// deben reponer dos veces.
		current, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if entity.TerminalOrderStatus(current.Status) {
			return &domain.InvalidTransitionError{From: current.Status, To: entity.OrderStatusCancelado}
		}

		details, err = orderRepo.GetDetails(orderID)
		if err != nil {
			return err
		}
		for _, detail := range details {
			if _, _, err := uc.ledger.ApplyDeltaInTx(stockRepo, movRepo, detail.ProductID, detail.Quantity, stock.DeltaMeta{
				Type:      entity.MovementTypeDevolucion,
				Reason:    fmt.Sprintf("Cancelación - Orden #%s", orderID),
				UnitPrice: detail.UnitPrice,
				Actor:     actorID,
				Voucher:   orderID,
			}, now); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelado)
	})
	if err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatusCancelado
	order.UpdatedAt = now
	payment, _ := uc.orderRepo.GetPayment(orderID)
	return toOrderResponse(order, details, payment), nil
}

// AdvanceStatus avanza la orden al sucesor inmediato del flujo lineal
// pendiente → confirmado → procesando → enviado → entregado. La cancelación
// se rechaza aquí: tiene su propia operación porque repone stock.
func (uc *OrderUseCase) AdvanceStatus(ctx context.Context, actorID, orderID, next string) (*dto.OrderResponse, error) {
	if actorID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidOrderStatus(next) {
		return nil, domain.ErrInvalidInput
	}

	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if next == entity.OrderStatusCancelado {
		// Cancelar por aquí saltaría la reposición de stock.
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}
	if !entity.CanAdvanceTo(order.Status, next) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}

	if err := uc.orderRepo.UpdateStatus(orderID, next); err != nil {
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = time.Now()
	return uc.assembleResponse(order)
}

// UpdateObservations cambia las observaciones de una orden no cancelada.
func (uc *OrderUseCase) UpdateObservations(ctx context.Context, orderID, observations string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OrderStatusCancelado {
		return nil, domain.ErrInvalidState
	}
	if err := uc.orderRepo.UpdateObservations(orderID, observations); err != nil {
		return nil, err
	}
	order.Observations = observations
	return uc.assembleResponse(order)
}

// ArchiveOrder marca la orden como borrada lógicamente. Solo se permite en
// estados terminales (cancelado o entregado); los movimientos de stock que la
// referencian permanecen intactos.
func (uc *OrderUseCase) ArchiveOrder(ctx context.Context, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if !entity.TerminalOrderStatus(order.Status) {
		return domain.ErrInvalidState
	}
	return uc.orderRepo.Archive(orderID, time.Now())
}
