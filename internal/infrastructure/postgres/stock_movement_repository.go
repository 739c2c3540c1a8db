package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, stock_id, movement_type, quantity, reason, unit_price, user_id, voucher_number, created_at`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El puerto no tiene Update ni Delete: los movimientos son inmutables.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	voucher := (*string)(nil)
	if movement.VoucherNumber != "" {
		voucher = &movement.VoucherNumber
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.StockID, movement.Type, movement.Quantity,
		movement.Reason, movement.UnitPrice, movement.UserID, voucher, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros por stock, tipo y rango de fechas.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.StockID != "" {
		query += fmt.Sprintf(" AND stock_id = $%d", pos)
		args = append(args, filter.StockID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SummarizeByType totaliza movimientos por tipo en un rango de fechas.
func (r *StockMovementRepo) SummarizeByType(from, to time.Time, stockID string) ([]repository.MovementSummary, error) {
	query := `
		SELECT movement_type, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE created_at >= $1 AND created_at <= $2`
	args := []any{from, to}
	if stockID != "" {
		query += " AND stock_id = $3"
		args = append(args, stockID)
	}
	query += " GROUP BY movement_type ORDER BY movement_type"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize stock movements: %w", err)
	}
	defer rows.Close()

	var out []repository.MovementSummary
	for rows.Next() {
		var s repository.MovementSummary
		if err := rows.Scan(&s.Type, &s.MovementCount, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var voucher *string
	err := row.Scan(
		&m.ID, &m.StockID, &m.Type, &m.Quantity, &m.Reason,
		&m.UnitPrice, &m.UserID, &voucher, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if voucher != nil {
		m.VoucherNumber = *voucher
	}
	return &m, nil
}
