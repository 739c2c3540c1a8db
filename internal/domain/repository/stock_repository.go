package repository

import "github.com/DanielMoranV/master-color-app/internal/domain/entity"

// StockRepository define el puerto de persistencia para Stock.
// No expone Delete: los registros de stock no se eliminan (ver StockMovement).
type StockRepository interface {
	Create(stock *entity.Stock) error
	GetByID(id string) (*entity.Stock, error)
	GetByProductID(productID string) (*entity.Stock, error)
	// GetByProductIDForUpdate bloquea la fila (SELECT FOR UPDATE) para revalidar
	// la cantidad dentro de una transacción antes de aplicar un delta.
	GetByProductIDForUpdate(productID string) (*entity.Stock, error)
	// GetByIDForUpdate idem, por ID de stock (ajustes manuales).
	GetByIDForUpdate(id string) (*entity.Stock, error)
	// UpdateQuantity persiste solo la cantidad; único camino de mutación de Quantity.
	UpdateQuantity(stock *entity.Stock) error
	// Update persiste umbrales y precios (no toca Quantity).
	Update(stock *entity.Stock) error
	List(limit, offset int) ([]*entity.Stock, error)
}
