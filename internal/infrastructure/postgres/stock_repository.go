package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, product_id, quantity, min_stock, max_stock, purchase_price, sale_price, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create da de alta el stock de un producto. La unicidad por producto la
// garantiza el constraint único de product_id.
func (r *StockRepo) Create(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.ProductID, stock.Quantity, stock.MinStock, stock.MaxStock,
		stock.PurchasePrice, stock.SalePrice, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetByID obtiene un stock por ID.
func (r *StockRepo) GetByID(id string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id)
}

// GetByProductID obtiene el stock de un producto.
func (r *StockRepo) GetByProductID(productID string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE product_id = $1`, productID)
}

// GetByProductIDForUpdate obtiene el stock de un producto y bloquea la fila
// (SELECT FOR UPDATE) para revalidar la cantidad dentro de la transacción.
func (r *StockRepo) GetByProductIDForUpdate(productID string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE product_id = $1 FOR UPDATE`, productID)
}

// GetByIDForUpdate idem, por ID de stock.
func (r *StockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockRepo) get(query string, arg any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.ProductID, &s.Quantity, &s.MinStock, &s.MaxStock,
		&s.PurchasePrice, &s.SalePrice, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// UpdateQuantity persiste la cantidad. El CHECK quantity >= 0 del esquema es
// la última línea de defensa; la lógica valida antes, bajo el bloqueo de fila.
func (r *StockRepo) UpdateQuantity(stock *entity.Stock) error {
	query := `UPDATE stocks SET quantity = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, stock.ID, stock.Quantity, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update persiste umbrales y precios (no toca quantity).
func (r *StockRepo) Update(stock *entity.Stock) error {
	query := `
		UPDATE stocks
		SET min_stock = $2, max_stock = $3, purchase_price = $4, sale_price = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.MinStock, stock.MaxStock, stock.PurchasePrice, stock.SalePrice, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista stocks paginados por fecha de creación.
func (r *StockRepo) List(limit, offset int) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(
			&s.ID, &s.ProductID, &s.Quantity, &s.MinStock, &s.MaxStock,
			&s.PurchasePrice, &s.SalePrice, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
