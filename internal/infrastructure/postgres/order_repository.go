package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, client_id, address_id, subtotal, shipping_cost, discount, status, observations, archived_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx). Todas las lecturas excluyen órdenes archivadas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.UserID, order.ClientID, order.AddressID,
		order.Subtotal, order.ShippingCost, order.Discount,
		order.Status, order.Observations, order.ArchivedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de la orden.
func (r *OrderRepo) CreateDetail(detail *entity.OrderDetail) error {
	query := `
		INSERT INTO order_details (id, order_id, product_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.OrderID, detail.ProductID, detail.Quantity, detail.UnitPrice, detail.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order detail: %w", err)
	}
	return nil
}

// CreatePayment persiste el pago de la orden (uno por orden).
func (r *OrderRepo) CreatePayment(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, payment_method, payment_code, document_type, nc_reference, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	ncRef := (*string)(nil)
	if payment.NCReference != "" {
		ncRef = &payment.NCReference
	}
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.OrderID, payment.Method, payment.Code,
		payment.DocumentType, ncRef, payment.Observations, payment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (excluye archivadas).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND archived_at IS NULL`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetDetails obtiene las líneas de la orden en orden de inserción.
func (r *OrderRepo) GetDetails(orderID string) ([]*entity.OrderDetail, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, created_at
		FROM order_details WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order details: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrderDetail
	for rows.Next() {
		var d entity.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// GetPayment obtiene el pago de la orden.
func (r *OrderRepo) GetPayment(orderID string) (*entity.Payment, error) {
	query := `
		SELECT id, order_id, payment_method, payment_code, document_type, nc_reference, observations, created_at
		FROM payments WHERE order_id = $1`
	var p entity.Payment
	var ncRef *string
	err := r.q.QueryRow(context.Background(), query, orderID).Scan(
		&p.ID, &p.OrderID, &p.Method, &p.Code, &p.DocumentType, &ncRef, &p.Observations, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if ncRef != nil {
		p.NCReference = *ncRef
	}
	return &p, nil
}

// UpdateStatus cambia el estado de una orden no archivada.
func (r *OrderRepo) UpdateStatus(orderID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND archived_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateObservations cambia las observaciones de una orden no archivada.
func (r *OrderRepo) UpdateObservations(orderID, observations string) error {
	query := `UPDATE orders SET observations = $2, updated_at = now() WHERE id = $1 AND archived_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, orderID, observations)
	if err != nil {
		return fmt.Errorf("update order observations: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Archive marca la orden como borrada lógicamente. No toca detalles, pago ni
// movimientos: la historia de stock sobrevive a la orden.
func (r *OrderRepo) Archive(orderID string, at time.Time) error {
	query := `UPDATE orders SET archived_at = $2, updated_at = $2 WHERE id = $1 AND archived_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, orderID, at)
	if err != nil {
		return fmt.Errorf("archive order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes con filtros por estado, cliente y rango de fechas.
func (r *OrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE archived_at IS NULL`
	var args []any
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.ClientID != "" {
		query += fmt.Sprintf(" AND client_id = $%d", pos)
		args = append(args, filter.ClientID)
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
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Statistics resume las órdenes de un período. TotalSales excluye canceladas.
func (r *OrderRepo) Statistics(from, to time.Time) (*repository.OrderStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(subtotal + shipping_cost - discount) FILTER (WHERE status <> 'cancelado'), 0),
			COUNT(*) FILTER (WHERE status = 'pendiente'),
			COUNT(*) FILTER (WHERE status = 'entregado'),
			COUNT(*) FILTER (WHERE status = 'cancelado')
		FROM orders
		WHERE archived_at IS NULL AND created_at >= $1 AND created_at <= $2`
	var s repository.OrderStatistics
	err := r.q.QueryRow(context.Background(), query, from, to).Scan(
		&s.TotalOrders, &s.TotalSales, &s.PendingOrders, &s.CompletedOrders, &s.CancelledOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("order statistics: %w", err)
	}
	return &s, nil
}

// TopProducts devuelve los productos más vendidos del período (excluye canceladas).
func (r *OrderRepo) TopProducts(from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.name, SUM(od.quantity) AS total_quantity
		FROM order_details od
		JOIN orders o ON o.id = od.order_id
		JOIN products p ON p.id = od.product_id
		WHERE o.archived_at IS NULL AND o.status <> 'cancelado'
		  AND o.created_at >= $1 AND o.created_at <= $2
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var subtotal, shipping, discount decimal.Decimal
	err := row.Scan(
		&o.ID, &o.UserID, &o.ClientID, &o.AddressID,
		&subtotal, &shipping, &discount,
		&o.Status, &o.Observations, &o.ArchivedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Subtotal = subtotal
	o.ShippingCost = shipping
	o.Discount = discount
	return &o, nil
}
