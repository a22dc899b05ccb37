package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// MaxTicketsPerLine is the per-line purchase cap: at most this many tickets of
// the same type in a single order.
const MaxTicketsPerLine = 10

// Order represents a purchase order. The header is immutable after creation
// except for status, payment method and notes; the total is always computed
// server-side from the items.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        int         `json:"user_id" db:"user_id"`
	OrderNumber   string      `json:"order_number" db:"order_number"`
	TotalAmount   int         `json:"total_amount" db:"total_amount"` // Amount in cents
	Status        OrderStatus `json:"status" db:"status"`
	PaymentMethod string      `json:"payment_method" db:"payment_method"`
	VisitDate     time.Time   `json:"visit_date" db:"visit_date"`
	Notes         string      `json:"notes" db:"notes"`
	Items         []*OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem represents one priced line within an order. The unit price is
// snapshotted from the ticket type at creation time; later catalog price
// changes never affect existing orders.
type OrderItem struct {
	ID             int       `json:"id" db:"id"`
	OrderID        uuid.UUID `json:"order_id" db:"order_id"`
	TicketTypeID   int       `json:"ticket_type_id" db:"ticket_type_id"`
	TicketTypeName string    `json:"ticket_type_name" db:"ticket_type_name"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPrice      int       `json:"unit_price" db:"unit_price"` // frozen, in cents
	Tickets        []*Ticket `json:"tickets,omitempty"`
}

// Subtotal returns quantity times the frozen unit price, in cents. It is
// always derived, never stored.
func (i *OrderItem) Subtotal() int {
	return i.Quantity * i.UnitPrice
}

// OrderLine is a validated (ticket type, quantity) pair handed to the order
// repository at checkout. TicketType carries the price to freeze.
type OrderLine struct {
	TicketType *TicketType
	Quantity   int
}

// CheckoutRequest represents the data needed to create a new order. An empty
// Items slice means "check out my current cart".
type CheckoutRequest struct {
	VisitDate time.Time
	Notes     string
	Items     []CheckoutItem
}

// CheckoutItem is one requested (ticket type, quantity) pair in a direct
// order-creation request.
type CheckoutItem struct {
	TicketTypeID int `json:"ticket_type_id"`
	Quantity     int `json:"quantity"`
}

// Order number format: ORD + YYYYMMDD + 8 digits (e.g. ORD2024010112345678)
var orderNumberRegex = regexp.MustCompile(`^ORD\d{8}\d{8}$`)

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// 8-digit random suffix using crypto/rand for better uniqueness
	max := big.NewInt(100000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		return fmt.Sprintf("ORD%s%08d", dateStr, now.UnixNano()%100000000)
	}

	return fmt.Sprintf("ORD%s%08d", dateStr, randomNum.Int64())
}

// ValidateOrderNumber checks an order number against the generated format.
func ValidateOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errors.New("order number is required")
	}
	if !orderNumberRegex.MatchString(orderNumber) {
		return errors.New("order number format is invalid")
	}
	return nil
}

// ValidateOrderStatus validates an order status value.
func ValidateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderPaid, OrderCancelled, OrderRefunded:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// CalculateTotal returns the sum of item subtotals in cents.
func (o *Order) CalculateTotal() int {
	total := 0
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderPaid
}

// CanBeCancelled returns true if the order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending
}

// CanBePaid returns true if the order can be paid
func (o *Order) CanBePaid() bool {
	return o.Status == OrderPending
}

// CanBeRefunded returns true if the order can be refunded. The refund
// transition is administrative only; no API operation exposes it.
func (o *Order) CanBeRefunded() bool {
	return o.Status == OrderPaid
}

// TotalAmountInCurrency returns the total amount in the main currency as a float
func (o *Order) TotalAmountInCurrency() float64 {
	return float64(o.TotalAmount) / 100.0
}

// GetStatusDisplayName returns a human-readable status name
func (o *Order) GetStatusDisplayName() string {
	switch o.Status {
	case OrderPending:
		return "Pending Payment"
	case OrderPaid:
		return "Paid"
	case OrderCancelled:
		return "Cancelled"
	case OrderRefunded:
		return "Refunded"
	default:
		return string(o.Status)
	}
}
