package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
	"github.com/DanielMoranV/master-color-app/pkg/validator"
)

// StockUseCase administra el alta y mantenimiento de registros de stock
// (umbrales y precios). La cantidad no se edita por aquí: solo cambia por la
// ruta de movimientos (LedgerUseCase). Los registros de stock no se eliminan.
type StockUseCase struct {
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stockRepo repository.StockRepository, productRepo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo, productRepo: productRepo}
}

// CreateStock da de alta el stock de un producto (uno por producto).
// La cantidad inicial se fija aquí, en el momento de setup; a partir de
// entonces solo muta vía movimientos.
func (uc *StockUseCase) CreateStock(ctx context.Context, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.stockRepo.GetByProductID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	stock := &entity.Stock{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.stockRepo.Create(stock); err != nil {
		return nil, err
	}
	return toStockResponse(stock), nil
}

// UpdateStock actualiza umbrales y precios. Nunca toca la cantidad.
func (uc *StockUseCase) UpdateStock(ctx context.Context, id string, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: campo %s falló la regla %s", domain.ErrInvalidInput, errs[0].Field, errs[0].Tag)
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	stock, err := uc.stockRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}

	stock.MinStock = in.MinStock
	stock.MaxStock = in.MaxStock
	stock.PurchasePrice = in.PurchasePrice
	stock.SalePrice = in.SalePrice
	stock.UpdatedAt = time.Now()
	if err := uc.stockRepo.Update(stock); err != nil {
		return nil, err
	}
	return toStockResponse(stock), nil
}

// GetStock devuelve el stock por ID.
func (uc *StockUseCase) GetStock(ctx context.Context, id string) (*dto.StockResponse, error) {
	stock, err := uc.stockRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return toStockResponse(stock), nil
}

// ListStocks lista los stocks paginados.
func (uc *StockUseCase) ListStocks(ctx context.Context, page dto.PageRequest) ([]*dto.StockResponse, error) {
	page.DefaultPage()
	stocks, err := uc.stockRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, toStockResponse(s))
	}
	return out, nil
}

func toStockResponse(s *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		Quantity:      s.Quantity,
		MinStock:      s.MinStock,
		MaxStock:      s.MaxStock,
		PurchasePrice: s.PurchasePrice,
		SalePrice:     s.SalePrice,
		LowStock:      s.LowStock(),
		UpdatedAt:     s.UpdatedAt,
	}
}
