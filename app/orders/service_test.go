package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/internal/promtest"
	"github.com/storefront-labs/catalog/internal/testdb"
	"github.com/storefront-labs/catalog/metrics"
	"github.com/storefront-labs/catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ordersMetric = "storefront_orders_total"

// --- Helpers ---

type fixture struct {
	db      *gorm.DB
	svc     *Service
	reg     *prometheus.Registry
	repo    *models.OrdersRepository
	context context.Context
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testdb.New(t)
	testdb.Seed(t, db, []string{"clothes", "tech"},
		testdb.Fixture{
			Product: models.Product{ID: "jacket", Name: "Jacket", Category: "clothes"},
			Prices:  []string{"518.47:USD:$", "480.00:EUR:€"},
		},
		testdb.Fixture{
			Product: models.Product{ID: "ps5", Name: "PlayStation 5", Category: "tech"},
			Prices:  []string{"844.02:USD:$"},
		},
		testdb.Fixture{
			Product: models.Product{ID: "sticker", Name: "Sticker", Category: "tech"},
		},
	)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	handle := database.Static(db)
	return fixture{
		db:      db,
		svc:     NewService(handle, zap.NewNop(), m),
		reg:     reg,
		repo:    models.NewOrdersRepository(handle),
		context: context.Background(),
	}
}

func (f fixture) counts(t *testing.T) (int64, int64) {
	t.Helper()
	orders, items, err := f.repo.CountOrders(f.context)
	require.NoError(t, err)
	return orders, items
}

// --- Tests ---

func TestPlaceOrderRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		input PlaceOrderInput
	}{
		{name: "No items", input: PlaceOrderInput{}},
		{name: "Empty items", input: PlaceOrderInput{Items: []LineInput{}}},
		{name: "Zero quantity", input: PlaceOrderInput{Items: []LineInput{
			{ProductID: "jacket", Quantity: 1},
			{ProductID: "ps5", Quantity: 0},
		}}},
		{name: "Negative quantity", input: PlaceOrderInput{Items: []LineInput{{ProductID: "jacket", Quantity: -2}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)

			res := f.svc.PlaceOrder(f.context, tc.input)
			assert.False(t, res.Success)
			assert.Equal(t, MessageInvalid, res.Message)
			assert.Nil(t, res.Order)

			orders, items := f.counts(t)
			assert.Zero(t, orders)
			assert.Zero(t, items)
			assert.Equal(t, 1.0, promtest.Counter(t, f.reg, ordersMetric, "result", "rejected"))
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	f := setup(t)

	res := f.svc.PlaceOrder(f.context, PlaceOrderInput{
		Items: []LineInput{
			{ProductID: "jacket", Quantity: 2, Attributes: []AttributeSelection{{Name: "Size", Value: "M"}}},
			{ProductID: "ghost", Quantity: 5},
			{ProductID: "ps5", Quantity: 1},
			{ProductID: "sticker", Quantity: 3},
		},
	})

	require.True(t, res.Success, res.Message)
	assert.Equal(t, MessagePlaced, res.Message)
	require.NotNil(t, res.Order)

	order := res.Order
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 518.47*2+844.02, order.Total, 0.001)
	assert.False(t, order.CreatedAt.IsZero())

	require.Len(t, order.Items, 3, "unknown product line is skipped")
	assert.Equal(t, ProductRef{ID: "jacket", Name: "Jacket"}, order.Items[0].Product)
	assert.Equal(t, 518.47, order.Items[0].UnitPrice, "first stored price wins")
	assert.JSONEq(t, `[{"name":"Size","value":"M"}]`, string(order.Items[0].Attributes))
	assert.Equal(t, 844.02, order.Items[1].UnitPrice)
	assert.Equal(t, 0.0, order.Items[2].UnitPrice, "product without prices is free")
	assert.Equal(t, 3, order.Items[2].Quantity)
	assert.JSONEq(t, `[]`, string(order.Items[2].Attributes))

	orders, items := f.counts(t)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(3), items)
	assert.Equal(t, 1.0, promtest.Counter(t, f.reg, ordersMetric, "result", "success"))
}

func TestPlaceOrderKeepsClientCurrency(t *testing.T) {
	f := setup(t)

	res := f.svc.PlaceOrder(f.context, PlaceOrderInput{
		Currency: "EUR",
		Items:    []LineInput{{ProductID: "jacket", Quantity: 1}},
	})

	require.True(t, res.Success)
	assert.Equal(t, "EUR", res.Order.Currency)
	assert.Equal(t, 518.47, res.Order.Total, "prices are not matched to the currency")
}

func TestPlaceOrderOnlyUnknownProducts(t *testing.T) {
	f := setup(t)

	res := f.svc.PlaceOrder(f.context, PlaceOrderInput{Items: []LineInput{{ProductID: "ghost", Quantity: 1}}})

	require.True(t, res.Success)
	assert.Empty(t, res.Order.Items)
	assert.Equal(t, 0.0, res.Order.Total)
}

func TestPlaceOrderRollsBackOnFailure(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_last_line", func(tx *gorm.DB) {
		if item, ok := tx.Statement.Dest.(*models.OrderItem); ok && item.ProductID == "ps5" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	res := f.svc.PlaceOrder(f.context, PlaceOrderInput{Items: []LineInput{
		{ProductID: "jacket", Quantity: 1},
		{ProductID: "sticker", Quantity: 1},
		{ProductID: "ps5", Quantity: 1},
	}})

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Failed to place order: ")
	assert.Contains(t, res.Message, "disk full")
	assert.Nil(t, res.Order)

	orders, items := f.counts(t)
	assert.Zero(t, orders, "order header is rolled back")
	assert.Zero(t, items, "earlier lines are rolled back")
	assert.Equal(t, 1.0, promtest.Counter(t, f.reg, ordersMetric, "result", "failed"))
}

type downHandle struct{}

func (downHandle) DB(context.Context) (*gorm.DB, error) { return nil, database.ErrUnavailable }

func TestPlaceOrderStoreUnavailable(t *testing.T) {
	svc := NewService(downHandle{}, zap.NewNop(), nil)

	res := svc.PlaceOrder(context.Background(), PlaceOrderInput{Items: []LineInput{{ProductID: "jacket", Quantity: 1}}})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, database.ErrUnavailable.Error())
}
