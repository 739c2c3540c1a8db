package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/application/stock"
	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
	"github.com/DanielMoranV/master-color-app/pkg/validator"
)

// igvRate es el IGV (18%) que se muestra como cifra referencial en el detalle
// de la orden; no forma parte del total autoritativo.
var igvRate = decimal.NewFromFloat(0.18)

// OrderUseCase es el motor transaccional de órdenes: crea la orden con sus
// líneas y pago descontando stock, revierte el stock al cancelar y gobierna
// las transiciones de estado. Toda mutación multi-registro pasa por TxRunner.
type OrderUseCase struct {
	txRunner    TxRunner
	ledger      StockLedger
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	addressRepo repository.AddressRepository
}

// NewOrderUseCase construye el motor. orderRepo y productRepo van atados al
// pool (lecturas); las escrituras pasan por txRunner.
func NewOrderUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	addressRepo repository.AddressRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		addressRepo: addressRepo,
	}
}

// resolvedLine es una línea ya validada, con el precio unitario resuelto.
type resolvedLine struct {
	productID string
	quantity  int64
	unitPrice decimal.Decimal
}

// CreateOrder valida la solicitud, verifica disponibilidad (pre-check
// advisory) y dentro de una sola transacción inserta la orden, sus líneas y
// el pago, descuenta el stock de cada línea y registra un movimiento Salida
// por línea. Si cualquier paso falla no sobrevive ningún registro parcial.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	if in.ShippingCost.IsNegative() || in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Cliente y dirección deben existir (la dirección, pertenecer al cliente).
	exists, err := uc.clientRepo.Exists(in.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	ok, err := uc.addressRepo.ExistsForClient(in.AddressID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	// Validar líneas y resolver precios. El pre-check de disponibilidad es
	// acumulado por producto, para que líneas duplicadas no pasen una
	// verificación que la transacción va a rechazar de todos modos.
	lines := make([]resolvedLine, 0, len(in.Items))
	demand := make(map[string]int64)
	for _, item := range in.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}

		demand[item.ProductID] += item.Quantity
		stk, err := uc.ledger.Reserve(ctx, item.ProductID, demand[item.ProductID])
		if err != nil {
			return nil, err
		}

		unitPrice := stk.SalePrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		lines = append(lines, resolvedLine{
			productID: item.ProductID,
			quantity:  item.Quantity,
			unitPrice: unitPrice,
		})
	}

	// Subtotal autoritativo: Σ cantidad × precio unitario.
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(line.quantity).Mul(line.unitPrice))
	}

	now := time.Now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		UserID:       actorID,
		ClientID:     in.ClientID,
		AddressID:    in.AddressID,
		Subtotal:     subtotal,
		ShippingCost: in.ShippingCost,
		Discount:     in.Discount,
		Status:       entity.OrderStatusPendiente,
		Observations: in.Observations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var details []*entity.OrderDetail
	var payment *entity.Payment
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, line := range lines {
			detail := &entity.OrderDetail{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: line.productID,
				Quantity:  line.quantity,
				UnitPrice: line.unitPrice,
				CreatedAt: now,
			}
			if err := orderRepo.CreateDetail(detail); err != nil {
				return err
			}
			// Descuento autoritativo bajo bloqueo de fila. Líneas duplicadas
			// se aplican en secuencia: la segunda ve el descuento de la primera.
			if _, _, err := uc.ledger.ApplyDeltaInTx(stockRepo, movRepo, line.productID, -line.quantity, stock.DeltaMeta{
				Type:      entity.MovementTypeSalida,
				Reason:    fmt.Sprintf("Venta - Orden #%s", order.ID),
				UnitPrice: line.unitPrice,
				Actor:     actorID,
				Voucher:   order.ID,
			}, now); err != nil {
				return err
			}
			details = append(details, detail)
		}
		payment = &entity.Payment{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			Method:       in.PaymentMethod,
			Code:         in.PaymentCode,
			DocumentType: in.DocumentType,
			NCReference:  in.NCReference,
			Observations: in.Observations,
			CreatedAt:    now,
		}
		return orderRepo.CreatePayment(payment)
	})
	if err != nil {
		return nil, err
	}

	return toOrderResponse(order, details, payment), nil
}

// toOrderResponse arma la respuesta completa. Tax es referencial (IGV 18%
// sobre el subtotal) y no participa en Total.
func toOrderResponse(order *entity.Order, details []*entity.OrderDetail, payment *entity.Payment) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           order.ID,
		ClientID:     order.ClientID,
		AddressID:    order.AddressID,
		Status:       order.Status,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		Discount:     order.Discount,
		Tax:          order.Subtotal.Mul(igvRate).Round(2),
		Total:        order.Total(),
		Observations: order.Observations,
		Items:        make([]dto.OrderItemResponse, 0, len(details)),
		CreatedAt:    order.CreatedAt,
	}
	for _, d := range details {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			LineTotal: d.LineTotal(),
		})
	}
	if payment != nil {
		resp.Payment = &dto.PaymentResponse{
			ID:           payment.ID,
			Method:       payment.Method,
			Code:         payment.Code,
			DocumentType: payment.DocumentType,
			NCReference:  payment.NCReference,
			Observations: payment.Observations,
		}
	}
	return resp
}
