package orders_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/application/orders"
	"github.com/DanielMoranV/master-color-app/internal/application/stock"
	"github.com/DanielMoranV/master-color-app/internal/domain"
	"github.com/DanielMoranV/master-color-app/internal/domain/entity"
)

const (
	testActorID   = "user-001"
	testClientID  = "cli-001"
	testAddressID = "addr-001"
	testProductID = "prod-001"
	testStockID   = "stk-001"
)

// buildFixture arma un store con un cliente, su dirección y un producto con el
// stock indicado, y devuelve el caso de uso cableado contra los fakes.
func buildFixture(quantity int64) (*memStore, *orders.OrderUseCase) {
	store := newMemStore()
	store.clients[testClientID] = true
	store.addresses[testAddressID] = testClientID
	store.products[testProductID] = &entity.Product{ID: testProductID, Name: "Tinta cian 1L"}
	store.stocks[testStockID] = &entity.Stock{
		ID:            testStockID,
		ProductID:     testProductID,
		Quantity:      quantity,
		MinStock:      2,
		PurchasePrice: decimal.NewFromFloat(10.00),
		SalePrice:     decimal.NewFromFloat(15.50),
	}
	store.byProduct[testProductID] = testStockID

	stockRepo := &memStockRepo{store: store}
	ledger := stock.NewLedgerUseCase(stockRepo)
	uc := orders.NewOrderUseCase(
		&fakeTxRunner{store: store},
		ledger,
		&memOrderRepo{store: store},
		&memProductRepo{store: store},
		&memClientRepo{store: store},
		&memAddressRepo{store: store},
	)
	return store, uc
}

func validRequest(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		ClientID:      testClientID,
		AddressID:     testAddressID,
		ShippingCost:  decimal.NewFromFloat(10),
		Discount:      decimal.NewFromFloat(5),
		PaymentMethod: "Yape",
		PaymentCode:   "OP-12345",
		DocumentType:  "Boleta",
		Items:         items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Camino feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_CaminoFeliz(t *testing.T) {
	store, uc := buildFixture(10)

	resp, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 4},
	))
	require.NoError(t, err)

	// Cabecera
	assert.Equal(t, entity.OrderStatusPendiente, resp.Status)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(62.00)), "4 × 15.50, obtenido %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(67.00)), "subtotal + envío - descuento")
	assert.True(t, resp.Tax.Equal(decimal.NewFromFloat(11.16)), "IGV referencial 18%% del subtotal, obtenido %s", resp.Tax)

	// Líneas: precio congelado desde el precio de venta vigente
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromFloat(15.50)))
	assert.True(t, resp.Items[0].LineTotal.Equal(decimal.NewFromFloat(62.00)))

	// Pago
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "Yape", resp.Payment.Method)
	assert.Equal(t, "Boleta", resp.Payment.DocumentType)

	// Stock descontado y movimiento Salida con voucher = ID de la orden
	assert.Equal(t, int64(6), store.stocks[testStockID].Quantity)
	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeSalida, mov.Type)
	assert.Equal(t, int64(4), mov.Quantity)
	assert.Equal(t, "Venta - Orden #"+resp.ID, mov.Reason)
	assert.Equal(t, resp.ID, mov.VoucherNumber)
	assert.Equal(t, testActorID, mov.UserID)
}

func TestCreateOrder_PrecioExplicitoPorLinea(t *testing.T) {
	_, uc := buildFixture(10)
	precio := decimal.NewFromFloat(12.00)

	resp, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 2, UnitPrice: &precio},
	))
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(24.00)),
		"el precio explícito de la línea manda sobre el precio de venta")
}

func TestCreateOrder_LimiteExacto(t *testing.T) {
	store, uc := buildFixture(5)

	_, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 5},
	))
	require.NoError(t, err, "ordenar exactamente lo disponible debe pasar")
	assert.Equal(t, int64(0), store.stocks[testStockID].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_SinLineas(t *testing.T) {
	_, uc := buildFixture(10)

	_, err := uc.CreateOrder(context.Background(), testActorID, validRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCreateOrder_StockInsuficiente_NadaPersiste(t *testing.T) {
	store, uc := buildFixture(3)

	_, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 4},
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, testProductID, stockErr.ProductID)
	assert.Equal(t, int64(3), stockErr.Available)

	assert.Empty(t, store.orders, "no debe quedar orden parcial")
	assert.Empty(t, store.movements)
	assert.Equal(t, int64(3), store.stocks[testStockID].Quantity)
}

func TestCreateOrder_LineasDuplicadasSumanDemanda(t *testing.T) {
	store, uc := buildFixture(5)

	// 3 + 3 = 6 > 5: el pre-check acumulado debe rechazarlo antes de abrir la tx.
	_, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 3},
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 3},
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.orders)
	assert.Equal(t, int64(5), store.stocks[testStockID].Quantity)
}

func TestCreateOrder_LineasDuplicadasDentroDelLimite(t *testing.T) {
	store, uc := buildFixture(6)

	resp, err := uc.CreateOrder(context.Background(), testActorID, validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 3},
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.stocks[testStockID].Quantity)
	assert.Len(t, resp.Items, 2, "las líneas duplicadas se conservan como líneas separadas")
	require.Len(t, store.movements, 2, "un movimiento Salida por línea")
}

func TestCreateOrder_ClienteInexistente(t *testing.T) {
	_, uc := buildFixture(10)

	in := validRequest(dto.OrderItemRequest{ProductID: testProductID, Quantity: 1})
	in.ClientID = "cli-fantasma"
	_, err := uc.CreateOrder(context.Background(), testActorID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_DireccionDeOtroCliente(t *testing.T) {
	store, uc := buildFixture(10)
	store.clients["cli-002"] = true
	store.addresses["addr-002"] = "cli-002"

	in := validRequest(dto.OrderItemRequest{ProductID: testProductID, Quantity: 1})
	in.AddressID = "addr-002"
	_, err := uc.CreateOrder(context.Background(), testActorID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"una dirección que no pertenece al cliente debe rechazarse")
}

func TestCreateOrder_MontosNegativos(t *testing.T) {
	_, uc := buildFixture(10)

	in := validRequest(dto.OrderItemRequest{ProductID: testProductID, Quantity: 1})
	in.Discount = decimal.NewFromFloat(-1)
	_, err := uc.CreateOrder(context.Background(), testActorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_MetodoDePagoDesconocido(t *testing.T) {
	_, uc := buildFixture(10)

	in := validRequest(dto.OrderItemRequest{ProductID: testProductID, Quantity: 1})
	in.PaymentMethod = "Cheque"
	_, err := uc.CreateOrder(context.Background(), testActorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_SinActor(t *testing.T) {
	_, uc := buildFixture(10)

	_, err := uc.CreateOrder(context.Background(), "", validRequest(
		dto.OrderItemRequest{ProductID: testProductID, Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos órdenes compitiendo por el mismo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_Concurrentes_NuncaNegativo(t *testing.T) {
	store, uc := buildFixture(10)

	// Dos órdenes de 6 unidades sobre 10 disponibles: exactamente una debe
	// pasar. Ambas pueden superar el pre-check advisory; la revalidación bajo
	// la transacción serializada rechaza a la segunda.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CreateOrder(context.Background(), testActorID, validRequest(
				dto.OrderItemRequest{ProductID: testProductID, Quantity: 6},
			))
		}(i)
	}
	wg.Wait()

	var okCount, failCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una orden debe confirmarse")
	assert.Equal(t, 1, failCount)
	assert.Equal(t, int64(4), store.stocks[testStockID].Quantity)
	assert.GreaterOrEqual(t, store.stocks[testStockID].Quantity, int64(0))
}
