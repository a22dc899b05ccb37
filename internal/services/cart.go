package services

import (
	"fmt"

	"themepark-ticketing-platform/internal/models"
)

// CartRepository interface for cart data operations
type CartRepository interface {
	GetOrCreate(userID int) (*models.Cart, error)
	AddItem(cartID, ticketTypeID, quantity int) (*models.CartItem, error)
	UpdateItemQuantity(cartID, itemID, quantity int) (*models.CartItem, error)
	RemoveItem(cartID, itemID int) error
	Clear(cartID int) error
}

// TicketTypeReader is the catalog surface the purchase flow depends on. The
// catalog is passed in explicitly at construction; there is no ambient global
// catalog client.
type TicketTypeReader interface {
	GetTicketTypeByID(id int) (*models.TicketType, error)
}

// CartService handles cart business logic
type CartService struct {
	cartRepo CartRepository
	catalog  TicketTypeReader
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, catalog TicketTypeReader) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
	}
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(userID int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a quantity of a ticket type to the user's cart. Adding a type
// already present increments its line instead of creating a second one.
// Inactive ticket types are rejected here and re-checked again at checkout.
func (s *CartService) AddItem(userID, ticketTypeID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	ticketType, err := s.catalog.GetTicketTypeByID(ticketTypeID)
	if err != nil {
		return nil, err
	}

	if !ticketType.IsActive {
		return nil, models.ErrTicketTypeInactive
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if _, err := s.cartRepo.AddItem(cart.ID, ticketTypeID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.cartRepo.GetOrCreate(userID)
}

// UpdateItemQuantity sets the quantity of an existing cart line
func (s *CartService) UpdateItemQuantity(userID, itemID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if _, err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity); err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(userID)
}

// RemoveItem deletes a line from the user's cart
func (s *CartService) RemoveItem(userID, itemID int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := s.cartRepo.RemoveItem(cart.ID, itemID); err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(userID)
}

// Clear removes every item from the user's cart
func (s *CartService) Clear(userID int) error {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	if err := s.cartRepo.Clear(cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
