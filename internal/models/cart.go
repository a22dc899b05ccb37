package models

import "time"

// Cart represents a user's shopping cart. Each user owns exactly one cart,
// created lazily on first access; checkout empties it but the row persists.
type Cart struct {
	ID        int         `json:"id" db:"id"`
	UserID    int         `json:"user_id" db:"user_id"`
	Items     []*CartItem `json:"items"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// CartItem represents one (ticket type, quantity) line in a cart. A cart holds
// at most one line per ticket type; adding the same type again increments the
// quantity instead of creating a second row.
type CartItem struct {
	ID             int       `json:"id" db:"id"`
	CartID         int       `json:"cart_id" db:"cart_id"`
	TicketTypeID   int       `json:"ticket_type_id" db:"ticket_type_id"`
	TicketTypeName string    `json:"ticket_type_name" db:"ticket_type_name"`
	Price          int       `json:"price" db:"price"` // current catalog price in cents, not frozen
	Quantity       int       `json:"quantity" db:"quantity"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Subtotal returns quantity times the current catalog price, in cents.
func (ci *CartItem) Subtotal() int {
	return ci.Quantity * ci.Price
}

// TotalAmount returns the live-priced cart total in cents. Cart totals track
// current catalog pricing; only order totals are price-frozen.
func (c *Cart) TotalAmount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
