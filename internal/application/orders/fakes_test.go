package orders_test

import (
	"context"
	"sync"
	"time"

	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. memStore guarda todo el estado; fakeTxRunner serializa las
// "transacciones" con txMu (el equivalente del bloqueo de fila) y restaura un
// snapshot si el callback falla (el equivalente del rollback). stateMu protege
// los mapas en las lecturas advisory que corren fuera de la transacción.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	txMu      sync.Mutex
	stateMu   sync.RWMutex
	stocks    map[string]*entity.Stock
	byProduct map[string]string
	movements []*entity.StockMovement
	products  map[string]*entity.Product
	clients   map[string]bool
	addresses map[string]string // addressID -> clientID
	orders    map[string]*entity.Order
	details   map[string][]*entity.OrderDetail // por orderID
	payments  map[string]*entity.Payment       // por orderID
}

func newMemStore() *memStore {
	return &memStore{
		stocks:    make(map[string]*entity.Stock),
		byProduct: make(map[string]string),
		products:  make(map[string]*entity.Product),
		clients:   make(map[string]bool),
		addresses: make(map[string]string),
		orders:    make(map[string]*entity.Order),
		details:   make(map[string][]*entity.OrderDetail),
		payments:  make(map[string]*entity.Payment),
	}
}

type storeSnapshot struct {
	stocks    map[string]*entity.Stock
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	details   map[string][]*entity.OrderDetail
	payments  map[string]*entity.Payment
}

func (s *memStore) snapshot() storeSnapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	snap := storeSnapshot{
		stocks:    make(map[string]*entity.Stock, len(s.stocks)),
		movements: make([]*entity.StockMovement, len(s.movements)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		details:   make(map[string][]*entity.OrderDetail, len(s.details)),
		payments:  make(map[string]*entity.Payment, len(s.payments)),
	}
	for k, v := range s.stocks {
		c := *v
		snap.stocks[k] = &c
	}
	copy(snap.movements, s.movements)
	for k, v := range s.orders {
		c := *v
		snap.orders[k] = &c
	}
	for k, v := range s.details {
		snap.details[k] = append([]*entity.OrderDetail(nil), v...)
	}
	for k, v := range s.payments {
		c := *v
		snap.payments[k] = &c
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.stocks = snap.stocks
	s.movements = snap.movements
	s.orders = snap.orders
	s.details = snap.details
	s.payments = snap.payments
	s.byProduct = make(map[string]string, len(snap.stocks))
	for id, stk := range snap.stocks {
		s.byProduct[stk.ProductID] = id
	}
}

// ── repos de stock ────────────────────────────────────────────────────────────

type memStockRepo struct{ store *memStore }

var _ repository.StockRepository = (*memStockRepo)(nil)

func (r *memStockRepo) Create(stock *entity.Stock) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	if _, dup := r.store.byProduct[stock.ProductID]; dup {
		return domain.ErrDuplicate
	}
	c := *stock
	r.store.stocks[c.ID] = &c
	r.store.byProduct[c.ProductID] = c.ID
	return nil
}

func (r *memStockRepo) GetByID(id string) (*entity.Stock, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	stk, ok := r.store.stocks[id]
	if !ok {
		return nil, nil
	}
	c := *stk
	return &c, nil
}

func (r *memStockRepo) GetByProductID(productID string) (*entity.Stock, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	id, ok := r.store.byProduct[productID]
	if !ok {
		return nil, nil
	}
	stk, ok := r.store.stocks[id]
	if !ok {
		return nil, nil
	}
	c := *stk
	return &c, nil
}

func (r *memStockRepo) GetByProductIDForUpdate(productID string) (*entity.Stock, error) {
	return r.GetByProductID(productID)
}

func (r *memStockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	return r.GetByID(id)
}

func (r *memStockRepo) UpdateQuantity(stock *entity.Stock) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	current, ok := r.store.stocks[stock.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Quantity = stock.Quantity
	current.UpdatedAt = stock.UpdatedAt
	return nil
}

func (r *memStockRepo) Update(stock *entity.Stock) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	current, ok := r.store.stocks[stock.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.MinStock = stock.MinStock
	current.MaxStock = stock.MaxStock
	current.PurchasePrice = stock.PurchasePrice
	current.SalePrice = stock.SalePrice
	current.UpdatedAt = stock.UpdatedAt
	return nil
}

func (r *memStockRepo) List(limit, offset int) ([]*entity.Stock, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	var out []*entity.Stock
	for _, stk := range r.store.stocks {
		c := *stk
		out = append(out, &c)
	}
	return out, nil
}

type memMovementRepo struct{ store *memStore }

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	c := *m
	r.store.movements = append(r.store.movements, &c)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if filter.StockID != "" && m.StockID != filter.StockID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r *memMovementRepo) SummarizeByType(from, to time.Time, stockID string) ([]repository.MovementSummary, error) {
	return nil, nil
}

// ── repos de catálogo y clientes ─────────────────────────────────────────────

type memProductRepo struct{ store *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type memClientRepo struct{ store *memStore }

var _ repository.ClientRepository = (*memClientRepo)(nil)

func (r *memClientRepo) Exists(id string) (bool, error) {
	return r.store.clients[id], nil
}

type memAddressRepo struct{ store *memStore }

var _ repository.AddressRepository = (*memAddressRepo)(nil)

func (r *memAddressRepo) ExistsForClient(addressID, clientID string) (bool, error) {
	return r.store.addresses[addressID] == clientID, nil
}

// ── repo de órdenes ──────────────────────────────────────────────────────────

type memOrderRepo struct{ store *memStore }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(order *entity.Order) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	c := *order
	r.store.orders[c.ID] = &c
	return nil
}

func (r *memOrderRepo) CreateDetail(detail *entity.OrderDetail) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	c := *detail
	r.store.details[c.OrderID] = append(r.store.details[c.OrderID], &c)
	return nil
}

func (r *memOrderRepo) CreatePayment(payment *entity.Payment) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	if _, dup := r.store.payments[payment.OrderID]; dup {
		return domain.ErrDuplicate
	}
	c := *payment
	r.store.payments[c.OrderID] = &c
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	o, ok := r.store.orders[id]
	if !ok || o.ArchivedAt != nil {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *memOrderRepo) GetDetails(orderID string) ([]*entity.OrderDetail, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	var out []*entity.OrderDetail
	for _, d := range r.store.details[orderID] {
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

func (r *memOrderRepo) GetPayment(orderID string) (*entity.Payment, error) {
	r.store.stateMu.RLock()
	defer r.store.stateMu.RUnlock()
	p, ok := r.store.payments[orderID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memOrderRepo) UpdateStatus(orderID, status string) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	o, ok := r.store.orders[orderID]
	if !ok || o.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *memOrderRepo) UpdateObservations(orderID, observations string) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	o, ok := r.store.orders[orderID]
	if !ok || o.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	o.Observations = observations
	return nil
}

func (r *memOrderRepo) Archive(orderID string, at time.Time) error {
	r.store.stateMu.Lock()
	defer r.store.stateMu.Unlock()
	o, ok := r.store.orders[orderID]
	if !ok || o.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	o.ArchivedAt = &at
	return nil
}

func (r *memOrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.ArchivedAt != nil {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && o.ClientID != filter.ClientID {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	return out, nil
}

func (r *memOrderRepo) Statistics(from, to time.Time) (*repository.OrderStatistics, error) {
	stats := &repository.OrderStatistics{}
	for _, o := range r.store.orders {
		if o.ArchivedAt != nil || o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		stats.TotalOrders++
		switch o.Status {
		case entity.OrderStatusPendiente:
			stats.PendingOrders++
		case entity.OrderStatusEntregado:
			stats.CompletedOrders++
		case entity.OrderStatusCancelado:
			stats.CancelledOrders++
		}
		if o.Status != entity.OrderStatusCancelado {
			stats.TotalSales = stats.TotalSales.Add(o.Total())
		}
	}
	return stats, nil
}

func (r *memOrderRepo) TopProducts(from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	totals := make(map[string]int64)
	for id, o := range r.store.orders {
		if o.ArchivedAt != nil || o.Status == entity.OrderStatusCancelado {
			continue
		}
		for _, d := range r.store.details[id] {
			totals[d.ProductID] += d.Quantity
		}
	}
	var out []repository.TopProductResult
	for pid, qty := range totals {
		name := ""
		if p, ok := r.store.products[pid]; ok {
			name = p.Name
		}
		out = append(out, repository.TopProductResult{ProductID: pid, ProductName: name, TotalQuantity: qty})
	}
	return out, nil
}

// ── runner ───────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	snap := r.store.snapshot()
	if err := fn(&memOrderRepo{store: r.store}, &memStockRepo{store: r.store}, &memMovementRepo{store: r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
