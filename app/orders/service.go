// Package orders places orders against the catalog in a single transaction.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/metrics"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultCurrency = "USD"

	MessagePlaced  = "Order placed successfully"
	MessageInvalid = "Invalid order input"
	messageFailed  = "Failed to place order: "
)

var errInvalidQuantity = errors.New("quantity must be positive")

type Service struct {
	db       database.Handle
	products *models.ProductsRepository
	orders   *models.OrdersRepository
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewService(db database.Handle, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		db:       db,
		products: models.NewProductsRepository(db),
		orders:   models.NewOrdersRepository(db),
		log:      log.Named("orders"),
		metrics:  m,
	}
}

// PlaceOrder persists the order and its resolvable lines atomically. Lines
// naming unknown products are skipped; each kept line is priced with the
// product's first stored price. It never returns an error: failures are
// reported in the Result.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) Result {
	if err := validate(in); err != nil {
		s.log.Info("order rejected", zap.Error(err))
		s.metrics.Order("rejected")
		return Result{Message: MessageInvalid}
	}

	orderID, err := s.persist(ctx, in)
	if err != nil {
		s.log.Error("order failed", zap.Error(err))
		s.metrics.Order("failed")
		return Result{Message: messageFailed + err.Error()}
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		// Committed already; report success without the echo.
		s.log.Error("reload placed order failed", zap.Uint("order_id", orderID), zap.Error(err))
		s.metrics.Order("success")
		return Result{Success: true, Message: MessagePlaced}
	}

	s.log.Info("order placed",
		zap.Uint("order_id", orderID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	s.metrics.Order("success")
	return Result{Success: true, Message: MessagePlaced, Order: order}
}

func validate(in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return errors.New("order has no items")
	}
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return fmt.Errorf("line %d: %w", i, errInvalidQuantity)
		}
	}
	return nil
}

func (s *Service) persist(ctx context.Context, in PlaceOrderInput) (uint, error) {
	db, err := s.db.DB(ctx)
	if err != nil {
		return 0, err
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	var orderID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)

		order := &models.Order{Total: decimal.Zero, Currency: currency, Status: models.OrderStatusPending}
		if err := orders.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		total := decimal.Zero
		for _, line := range in.Items {
			price, ok, err := unitPrice(ctx, products, line.ProductID)
			if err != nil {
				return err
			}
			if !ok {
				s.log.Warn("skipping unknown product", zap.String("product_id", line.ProductID))
				continue
			}

			attributes, err := encodeSelection(line.Attributes)
			if err != nil {
				return err
			}
			if err := orders.CreateOrderItem(ctx, &models.OrderItem{
				OrderID:    order.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  price,
				Attributes: attributes,
			}); err != nil {
				return fmt.Errorf("create order item %q: %w", line.ProductID, err)
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if err := orders.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return fmt.Errorf("update total: %w", err)
		}
		orderID = order.ID
		return nil
	})
	return orderID, err
}

// unitPrice reports ok=false when the product does not exist.
func unitPrice(ctx context.Context, products *models.ProductsRepository, productID string) (decimal.Decimal, bool, error) {
	if _, err := products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get product %q: %w", productID, err)
	}

	prices, err := products.GetProductPrices(ctx, productID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get prices %q: %w", productID, err)
	}
	if len(prices) == 0 {
		return decimal.Zero, true, nil
	}
	return prices[0].Amount, true, nil
}

func encodeSelection(sel []AttributeSelection) (datatypes.JSON, error) {
	if sel == nil {
		sel = []AttributeSelection{}
	}
	b, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return datatypes.JSON(b), nil
}

// load re-reads a placed order. Lines whose product has since disappeared are
// left out.
func (s *Service) load(ctx context.Context, orderID uint) (*Order, error) {
	row, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:        row.ID,
		Total:     row.Total.InexactFloat64(),
		Currency:  row.Currency,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		Items:     make([]OrderItem, 0, len(row.Items)),
	}
	for _, item := range row.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		attributes := json.RawMessage(item.Attributes)
		if len(attributes) == 0 {
			attributes = json.RawMessage("[]")
		}
		order.Items = append(order.Items, OrderItem{
			ID:         item.ID,
			Product:    ProductRef{ID: product.ID, Name: product.Name},
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			Attributes: attributes,
		})
	}
	return order, nil
}
