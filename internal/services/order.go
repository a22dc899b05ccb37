package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/models"
)

// OrderRepository interface for order data operations
type OrderRepository interface {
	Create(userID int, visitDate time.Time, notes string, lines []models.OrderLine, clearCartID int) (*models.Order, error)
	GetByID(id uuid.UUID, userID int) (*models.Order, error)
	ListByUser(userID, limit, offset int) ([]*models.Order, int, error)
	UpdateStatusIfPending(id uuid.UUID, userID int, status models.OrderStatus, paymentMethod string) (*models.Order, error)
}

// DefaultPaymentMethod is recorded when a payment request names none.
const DefaultPaymentMethod = "Credit Card"

// OrderService handles checkout and the order lifecycle
type OrderService struct {
	orderRepo OrderRepository
	cartRepo  CartRepository
	catalog   TicketTypeReader
	payments  PaymentService
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo OrderRepository,
	cartRepo CartRepository,
	catalog TicketTypeReader,
	payments PaymentService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		catalog:   catalog,
		payments:  payments,
		logger:    logger,
	}
}

// Checkout converts either the user's cart (when req.Items is empty) or an
// explicit item list into a pending order with frozen unit prices and one
// ticket per purchased unit. The conversion is all-or-nothing: on any failure
// nothing is persisted and a cart source is left untouched.
func (s *OrderService) Checkout(userID int, req *models.CheckoutRequest) (*models.Order, error) {
	items := req.Items
	clearCartID := 0

	if len(items) == 0 {
		cart, err := s.cartRepo.GetOrCreate(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart: %w", err)
		}
		for _, ci := range cart.Items {
			items = append(items, models.CheckoutItem{
				TicketTypeID: ci.TicketTypeID,
				Quantity:     ci.Quantity,
			})
		}
		clearCartID = cart.ID
	}

	lines, err := s.validateCheckout(req.VisitDate, items)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.Create(userID, req.VisitDate, req.Notes, lines, clearCartID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("user_id", userID),
		zap.Int("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)),
	)

	return order, nil
}

// validateCheckout runs the fast-fail validation sequence and resolves each
// requested line against the catalog. Each check is a full pass over the
// lines: an availability defect anywhere is reported before any quantity
// defect. Activation status is re-checked here even for cart-sourced items,
// in case it changed after the add.
func (s *OrderService) validateCheckout(visitDate time.Time, items []models.CheckoutItem) ([]models.OrderLine, error) {
	if len(items) == 0 {
		return nil, models.ErrEmptyOrder
	}

	today := time.Now().Truncate(24 * time.Hour)
	if visitDate.Before(today) {
		return nil, models.ErrInvalidVisitDate
	}

	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		ticketType, err := s.catalog.GetTicketTypeByID(item.TicketTypeID)
		if err != nil {
			if errors.Is(err, models.ErrTicketTypeNotFound) {
				return nil, models.ErrTicketTypeUnavailable
			}
			return nil, err
		}
		if !ticketType.IsActive {
			return nil, models.ErrTicketTypeUnavailable
		}

		lines = append(lines, models.OrderLine{
			TicketType: ticketType,
			Quantity:   item.Quantity,
		})
	}

	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > models.MaxTicketsPerLine {
			return nil, models.ErrQuantityOutOfRange
		}
	}

	return lines, nil
}

// GetOrder retrieves one of the user's orders with items and tickets
func (s *OrderService) GetOrder(userID int, orderID uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(orderID, userID)
}

// ListOrders retrieves the user's orders, newest first
func (s *OrderService) ListOrders(userID, limit, offset int) ([]*models.Order, int, error) {
	return s.orderRepo.ListByUser(userID, limit, offset)
}

// Cancel cancels a pending order. Only pending orders can be cancelled; the
// tickets under a cancelled order were never usable and are left in place.
func (s *OrderService) Cancel(userID int, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.UpdateStatusIfPending(orderID, userID, models.OrderCancelled, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.Int("user_id", userID),
	)

	return order, nil
}

// Pay pays for a pending order through the payment service (simulated) and
// records the payment method. Only pending orders can be paid.
func (s *OrderService) Pay(userID int, orderID uuid.UUID, paymentMethod string) (*models.Order, error) {
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	order, err := s.orderRepo.GetByID(orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.CanBePaid() {
		return nil, models.ErrInvalidTransition
	}

	result, err := s.payments.ProcessPayment(order.TotalAmount, paymentMethod)
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	paid, err := s.orderRepo.UpdateStatusIfPending(orderID, userID, models.OrderPaid, paymentMethod)
	if err != nil {
		// A concurrent cancel can win the conditional update after the charge
		// went through. Compensate by refunding the processed payment.
		if refundErr := s.payments.Refund(result.TransactionID); refundErr != nil {
			s.logger.Error("refund after lost payment race failed",
				zap.String("transaction_id", result.TransactionID),
				zap.Error(refundErr),
			)
		}
		return nil, err
	}

	s.logger.Info("order paid",
		zap.String("order_number", paid.OrderNumber),
		zap.String("transaction_id", result.TransactionID),
		zap.String("payment_method", paymentMethod),
		zap.Int("amount", result.Amount),
	)

	return paid, nil
}
