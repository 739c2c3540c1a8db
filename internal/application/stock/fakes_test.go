package stock_test

import (
	"context"
	"sync"
	"time"

	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. memStore guarda el estado compartido; el fakeTxRunner
// serializa las "transacciones" con un mutex (emulando el bloqueo de fila) y
// restaura un snapshot si el callback falla (emulando el rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	stocks    map[string]*entity.Stock // por ID
	byProduct map[string]string        // productID -> stockID
	movements []*entity.StockMovement
	products  map[string]*entity.Product
}

func newMemStore() *memStore {
	return &memStore{
		stocks:    make(map[string]*entity.Stock),
		byProduct: make(map[string]string),
		products:  make(map[string]*entity.Product),
	}
}

func (s *memStore) addProduct(id, name string) {
	s.products[id] = &entity.Product{ID: id, Name: name}
}

func (s *memStore) addStock(stk entity.Stock) {
	c := stk
	s.stocks[c.ID] = &c
	s.byProduct[c.ProductID] = c.ID
}

func (s *memStore) snapshot() (map[string]*entity.Stock, []*entity.StockMovement) {
	stocks := make(map[string]*entity.Stock, len(s.stocks))
	for k, v := range s.stocks {
		c := *v
		stocks[k] = &c
	}
	movs := make([]*entity.StockMovement, len(s.movements))
	copy(movs, s.movements)
	return stocks, movs
}

func (s *memStore) restore(stocks map[string]*entity.Stock, movs []*entity.StockMovement) {
	s.stocks = stocks
	s.movements = movs
	s.byProduct = make(map[string]string, len(stocks))
	for id, stk := range stocks {
		s.byProduct[stk.ProductID] = id
	}
}

// memStockRepo implementa repository.StockRepository sobre memStore.
// Devuelve copias para que las mutaciones del caller no alcancen el store
// hasta UpdateQuantity/Update.
type memStockRepo struct {
	store *memStore
}

var _ repository.StockRepository = (*memStockRepo)(nil)

func (r *memStockRepo) Create(stock *entity.Stock) error {
	if _, dup := r.store.byProduct[stock.ProductID]; dup {
		return domain.ErrDuplicate
	}
	r.store.addStock(*stock)
	return nil
}

func (r *memStockRepo) GetByID(id string) (*entity.Stock, error) {
	stk, ok := r.store.stocks[id]
	if !ok {
		return nil, nil
	}
	c := *stk
	return &c, nil
}

func (r *memStockRepo) GetByProductID(productID string) (*entity.Stock, error) {
	id, ok := r.store.byProduct[productID]
	if !ok {
		return nil, nil
	}
	return r.GetByID(id)
}

func (r *memStockRepo) GetByProductIDForUpdate(productID string) (*entity.Stock, error) {
	return r.GetByProductID(productID)
}

func (r *memStockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	return r.GetByID(id)
}

func (r *memStockRepo) UpdateQuantity(stock *entity.Stock) error {
	current, ok := r.store.stocks[stock.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Quantity = stock.Quantity
	current.UpdatedAt = stock.UpdatedAt
	return nil
}

func (r *memStockRepo) Update(stock *entity.Stock) error {
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
	var out []*entity.Stock
	for _, stk := range r.store.stocks {
		c := *stk
		out = append(out, &c)
	}
	return out, nil
}

// memMovementRepo implementa repository.StockMovementRepository sobre memStore.
type memMovementRepo struct {
	store *memStore
}

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
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
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r *memMovementRepo) SummarizeByType(from, to time.Time, stockID string) ([]repository.MovementSummary, error) {
	totals := make(map[string]*repository.MovementSummary)
	var order []string
	for _, m := range r.store.movements {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		if stockID != "" && m.StockID != stockID {
			continue
		}
		s, ok := totals[m.Type]
		if !ok {
			s = &repository.MovementSummary{Type: m.Type}
			totals[m.Type] = s
			order = append(order, m.Type)
		}
		s.MovementCount++
		s.TotalQuantity += m.Quantity
	}
	out := make([]repository.MovementSummary, 0, len(order))
	for _, t := range order {
		out = append(out, *totals[t])
	}
	return out, nil
}

// memProductRepo implementa repository.ProductRepository sobre memStore.
type memProductRepo struct {
	store *memStore
}

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
	var out []*entity.Product
	for _, p := range r.store.products {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

// fakeTxRunner serializa los callbacks y restaura el estado si fallan.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stocks, movs := r.store.snapshot()
	if err := fn(&memStockRepo{store: r.store}, &memMovementRepo{store: r.store}); err != nil {
		r.store.restore(stocks, movs)
		return err
	}
	return nil
}
