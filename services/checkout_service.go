package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sohan0019/PlantNet/models"
	"github.com/sohan0019/PlantNet/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// PlantStore is the slice of plant data access checkout needs.
type PlantStore interface {
	FindByID(ctx context.Context, id string) (*models.Plant, error)
	DecrementQuantity(ctx context.Context, id string, quantity int) error
}

// OrderStore is the slice of order data access checkout needs.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	MarkStockAdjusted(ctx context.Context, transactionID string) error
}

// EventPublisher publishes order lifecycle events. Publishing is
// best-effort; settlement never fails because of it.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// CheckoutService orchestrates hosted-checkout creation and payment
// settlement. It holds no mutable state of its own; all state lives in
// the stores, so its methods are safe to call concurrently.
type CheckoutService struct {
	plants    PlantStore
	orders    OrderStore
	gateway   PaymentGateway
	publisher EventPublisher
	logger    *zap.Logger

	gatewayRetries int
	retryBackoff   time.Duration
}

// NewCheckoutService creates a CheckoutService. publisher may be nil
// when eventing is disabled.
func NewCheckoutService(plants PlantStore, orders OrderStore, gateway PaymentGateway, publisher EventPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		plants:         plants,
		orders:         orders,
		gateway:        gateway,
		publisher:      publisher,
		logger:         logger,
		gatewayRetries: 3,
		retryBackoff:   200 * time.Millisecond,
	}
}

// StartCheckout validates the purchase against current stock and opens
// a hosted-checkout session. Inventory is not touched here; stock is
// only decremented once the payment is confirmed at settlement.
func (s *CheckoutService) StartCheckout(ctx context.Context, plantID string, quantity int, customer models.Customer) (*models.CheckoutSessionRef, *ServiceError) {
	if quantity < 1 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "quantity must be at least 1"}
	}

	plant, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "plant not found"}
		}
		s.logger.Error("Failed to load plant for checkout", zap.String("plant_id", plantID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to load plant"}
	}

	if quantity > plant.Quantity {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "insufficient stock"}
	}

	var ref *models.CheckoutSessionRef
	err = s.withGatewayRetry(ctx, func() error {
		var gwErr error
		ref, gwErr = s.gateway.CreateCheckoutSession(ctx, plant, quantity, customer)
		return gwErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "invalid checkout amount"}
		case errors.Is(err, ErrGatewayUnavailable):
			s.logger.Error("Payment gateway unavailable", zap.String("plant_id", plantID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "payment gateway unavailable"}
		default:
			s.logger.Error("Checkout session creation failed", zap.String("plant_id", plantID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to create checkout session"}
		}
	}

	s.logger.Info("Checkout session created",
		zap.String("plant_id", plantID),
		zap.String("session_id", ref.SessionID),
		zap.Int("quantity", quantity),
	)
	return ref, nil
}

// SettlePayment converts a paid session into a durable order and an
// inventory decrement. It is idempotent: repeated or concurrent calls
// for the same captured payment return the original order. The unique
// index on transaction_id decides the insert race; only the winner
// decrements stock.
func (s *CheckoutService) SettlePayment(ctx context.Context, sessionID string) (*models.SettlementResult, *ServiceError) {
	var sess *models.CheckoutSession
	err := s.withGatewayRetry(ctx, func() error {
		var gwErr error
		sess, gwErr = s.gateway.RetrieveSession(ctx, sessionID)
		return gwErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "checkout session not found"}
		case errors.Is(err, ErrGatewayUnavailable):
			s.logger.Error("Payment gateway unavailable during settlement", zap.String("session_id", sessionID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "payment gateway unavailable"}
		default:
			s.logger.Error("Session retrieval failed", zap.String("session_id", sessionID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to retrieve checkout session"}
		}
	}

	// Not paid yet (or abandoned): nothing to do, caller may poll again.
	if sess.PaymentStatus != models.SessionStatusPaid {
		return nil, &ServiceError{StatusCode: http.StatusPaymentRequired, Message: "payment not completed"}
	}

	plantID := sess.Metadata[models.MetaPlantID]
	if plantID == "" || sess.PaymentIntentID == "" {
		// A paid session we cannot attribute is a provider contract
		// violation; fail loudly rather than drop the payment silently.
		s.logger.Error("Malformed session metadata",
			zap.String("session_id", sessionID),
			zap.String("payment_intent", sess.PaymentIntentID),
			zap.Any("metadata", sess.Metadata),
		)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "malformed checkout session"}
	}

	// Fast path: this payment was already settled by an earlier call.
	if existing, err := s.orders.FindByTransactionID(ctx, sess.PaymentIntentID); err == nil {
		return &models.SettlementResult{
			TransactionID:  existing.TransactionID,
			OrderID:        existing.ID.Hex(),
			PlantID:        existing.PlantID,
			AlreadySettled: true,
		}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Order lookup failed", zap.String("transaction_id", sess.PaymentIntentID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to check existing order"}
	}

	plant, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "plant not found"}
		}
		s.logger.Error("Failed to load plant for settlement", zap.String("plant_id", plantID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to load plant"}
	}

	quantity := sess.Quantity()
	order := &models.Order{
		PlantID:       plantID,
		TransactionID: sess.PaymentIntentID,
		CustomerEmail: sess.Metadata[models.MetaCustomerEmail],
		CustomerName:  sess.Metadata[models.MetaCustomerName],
		Status:        models.OrderStatusPending,
		Seller:        plant.Seller,
		Name:          plant.Name,
		Category:      plant.Category,
		Quantity:      quantity,
		Price:         float64(sess.AmountTotal) / 100,
		Image:         plant.Image,
	}

	orderID, err := s.orders.Insert(ctx, order)
	if errors.Is(err, repository.ErrDuplicateTransaction) {
		// Lost the insert race to a concurrent settlement; the winner
		// owns the inventory decrement. Hand back its order.
		existing, findErr := s.orders.FindByTransactionID(ctx, sess.PaymentIntentID)
		if findErr != nil {
			s.logger.Error("Failed to load concurrently settled order",
				zap.String("transaction_id", sess.PaymentIntentID), zap.Error(findErr))
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to load settled order"}
		}
		return &models.SettlementResult{
			TransactionID:  existing.TransactionID,
			OrderID:        existing.ID.Hex(),
			PlantID:        existing.PlantID,
			AlreadySettled: true,
		}, nil
	}
	if err != nil {
		s.logger.Error("Order insert failed", zap.String("transaction_id", sess.PaymentIntentID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to create order"}
	}

	s.applyStockDecrement(ctx, plantID, quantity, sess.PaymentIntentID, orderID)

	s.logger.Info("Payment settled",
		zap.String("transaction_id", sess.PaymentIntentID),
		zap.String("order_id", orderID),
		zap.String("plant_id", plantID),
		zap.Int("quantity", quantity),
	)

	s.publishOrderCreated(order, orderID, sess)

	return &models.SettlementResult{TransactionID: sess.PaymentIntentID, OrderID: orderID, PlantID: plantID}, nil
}

// applyStockDecrement decrements inventory for a freshly inserted
// order and marks the order adjusted. Failures here never undo the
// order (the payment is captured); they leave stock_adjusted false so
// the miss is discoverable.
func (s *CheckoutService) applyStockDecrement(ctx context.Context, plantID string, quantity int, transactionID, orderID string) {
	if err := s.plants.DecrementQuantity(ctx, plantID, quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Oversold between checkout and settlement: the charge is
			// captured but stock ran out. Fulfillment resolves it.
			s.logger.Error("Stock floor reached on settlement",
				zap.String("plant_id", plantID),
				zap.String("order_id", orderID),
				zap.Int("quantity", quantity),
			)
			return
		}
		s.logger.Error("Inventory decrement failed",
			zap.String("plant_id", plantID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	if err := s.orders.MarkStockAdjusted(ctx, transactionID); err != nil {
		s.logger.Warn("Failed to mark order stock-adjusted",
			zap.String("transaction_id", transactionID), zap.Error(err))
	}
}

func (s *CheckoutService) publishOrderCreated(order *models.Order, orderID string, sess *models.CheckoutSession) {
	if s.publisher == nil {
		return
	}
	event := models.OrderEvent{
		EventID:       uuid.NewString(),
		Type:          models.EventOrderCreated,
		OrderID:       orderID,
		TransactionID: order.TransactionID,
		PlantID:       order.PlantID,
		CustomerEmail: order.CustomerEmail,
		Quantity:      order.Quantity,
		Amount:        sess.AmountTotal,
		Currency:      "usd",
		Timestamp:     time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", orderID), zap.Error(err))
	}
}

// withGatewayRetry runs fn, retrying a bounded number of times with
// backoff on ErrGatewayUnavailable only. Context cancellation stops
// the retry loop.
func (s *CheckoutService) withGatewayRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := s.retryBackoff
	for attempt := 0; attempt < s.gatewayRetries; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, ErrGatewayUnavailable) {
			return err
		}
		if attempt == s.gatewayRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
