package models

import "time"

// Destination represents a theme-park destination (a resort grouping one or
// more parks). Catalog data is read-only to the purchase flow.
type Destination struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Park represents a single park within a destination.
type Park struct {
	ID            int       `json:"id" db:"id"`
	DestinationID int       `json:"destination_id" db:"destination_id"`
	Name          string    `json:"name" db:"name"`
	Timezone      string    `json:"timezone" db:"timezone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TicketType represents a purchasable ticket catalog entry scoped to a park.
// The purchase flow reads it at line-item creation time and copies the price;
// it never mutates catalog data.
type TicketType struct {
	ID          int       `json:"id" db:"id"`
	ParkID      int       `json:"park_id" db:"park_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"` // Price in cents
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PriceInCurrency returns the price in the main currency as a float
func (tt *TicketType) PriceInCurrency() float64 {
	return float64(tt.Price) / 100.0
}

// Attraction represents a ride, show or experience inside a park. Attractions
// are browsable content; they are not purchasable and carry no price.
type Attraction struct {
	ID             int       `json:"id" db:"id"`
	ParkID         int       `json:"park_id" db:"park_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	AttractionType string    `json:"attraction_type" db:"attraction_type"`
	Latitude       *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
