package orders

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

// GetOrder devuelve la orden completa (cabecera, líneas y pago). Las órdenes
// archivadas no se devuelven.
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.assembleResponse(order)
}

// ListOrders lista órdenes con filtros por estado, cliente y rango de fechas.
func (uc *OrderUseCase) ListOrders(ctx context.Context, in dto.OrderListRequest) ([]*dto.OrderResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	in.DefaultPage()
	filter := repository.OrderFilter{
		Status:   in.Status,
		ClientID: in.ClientID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.FromDate != "" {
		from, err := time.Parse("2006-01-02", in.FromDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if in.ToDate != "" {
		to, err := time.Parse("2006-01-02", in.ToDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	list, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	// Listado liviano: solo cabeceras, sin líneas ni pago.
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o, nil, nil))
	}
	return out, nil
}

// Statistics resume las órdenes del período (por defecto, el mes en curso)
// junto al top 5 de productos más vendidos.
func (uc *OrderUseCase) Statistics(ctx context.Context, fromDate, toDate string) (*dto.OrderStatisticsResponse, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	var err error
	if fromDate != "" {
		from, err = time.Parse("2006-01-02", fromDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if toDate != "" {
		to, err = time.Parse("2006-01-02", toDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	stats, err := uc.orderRepo.Statistics(from, to)
	if err != nil {
		return nil, err
	}
	top, err := uc.orderRepo.TopProducts(from, to, 5)
	if err != nil {
		return nil, err
	}

	resp := &dto.OrderStatisticsResponse{
		TotalOrders:     stats.TotalOrders,
		TotalSales:      stats.TotalSales,
		PendingOrders:   stats.PendingOrders,
		CompletedOrders: stats.CompletedOrders,
		CancelledOrders: stats.CancelledOrders,
		TopProducts:     make([]dto.TopProductResponse, 0, len(top)),
	}
	for _, t := range top {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductResponse{
			ProductID:     t.ProductID,
			ProductName:   t.ProductName,
			TotalQuantity: t.TotalQuantity,
		})
	}
	return resp, nil
}

// assembleResponse carga líneas y pago de la orden y arma la respuesta.
func (uc *OrderUseCase) assembleResponse(order *entity.Order) (*dto.OrderResponse, error) {
	details, err := uc.orderRepo.GetDetails(order.ID)
	if err != nil {
		return nil, err
	}
	payment, err := uc.orderRepo.GetPayment(order.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, details, payment), nil
}
