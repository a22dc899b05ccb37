package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket represents a single admission unit. Checkout mints exactly one ticket
// per purchased quantity under an order item; tickets are individually
// trackable and usable once.
type Ticket struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	OrderItemID  int        `json:"order_item_id" db:"order_item_id"`
	TicketNumber string     `json:"ticket_number" db:"ticket_number"`
	GuestName    string     `json:"guest_name" db:"guest_name"`
	IsUsed       bool       `json:"is_used" db:"is_used"`
	UsedAt       *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	// Read-only context joined in by the repository for listings.
	TicketTypeName string      `json:"ticket_type_name,omitempty" db:"ticket_type_name"`
	ParkName       string      `json:"park_name,omitempty" db:"park_name"`
	VisitDate      time.Time   `json:"visit_date,omitempty" db:"visit_date"`
	OrderStatus    OrderStatus `json:"order_status,omitempty" db:"order_status"`
}

const ticketNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTicketNumber generates a unique ticket number in the form
// TIX + YYYYMMDD + 8 alphanumeric characters.
func GenerateTicketNumber() string {
	dateStr := time.Now().Format("20060102")

	suffix := make([]byte, 8)
	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		// Fallback to a UUID-derived suffix if crypto/rand fails
		u := uuid.New().String()
		return fmt.Sprintf("TIX%s%s", dateStr, u[:8])
	}
	for i, b := range random {
		suffix[i] = ticketNumberAlphabet[int(b)%len(ticketNumberAlphabet)]
	}

	return fmt.Sprintf("TIX%s%s", dateStr, suffix)
}

// ValidateTicketNumber checks a ticket number against the generated format.
func ValidateTicketNumber(ticketNumber string) error {
	if ticketNumber == "" {
		return errors.New("ticket number is required")
	}
	if len(ticketNumber) != 19 || ticketNumber[:3] != "TIX" {
		return errors.New("ticket number format is invalid")
	}
	return nil
}

// CanBeUsed returns true if the ticket can still be marked used.
func (t *Ticket) CanBeUsed() bool {
	return !t.IsUsed
}

// GuestNameUpdatable returns true while the guest name may still be changed:
// the owning order is paid and the ticket has not been used.
func (t *Ticket) GuestNameUpdatable(orderStatus OrderStatus) bool {
	return orderStatus == OrderPaid && !t.IsUsed
}

// IsValid returns true for a usable ticket: paid order, not yet used.
func (t *Ticket) IsValid() bool {
	return t.OrderStatus == OrderPaid && !t.IsUsed
}
