package repositories

import (
	"database/sql"

	"themepark-ticketing-platform/internal/models"
)

// CartRepository handles cart and cart item data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
// The upsert keeps the operation idempotent under concurrent requests.
func (r *CartRepository) GetOrCreate(userID int) (*models.Cart, error) {
	query := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at`

	cart := &models.Cart{}
	err := r.db.QueryRow(query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, models.NewPersistenceError("get or create cart", err)
	}

	items, err := r.getItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

// AddItem adds a (ticket type, quantity) line to the cart. If a line for the
// same ticket type already exists the quantity is incremented in a single
// statement, so concurrent adds never race into duplicate rows.
func (r *CartRepository) AddItem(cartID, ticketTypeID, quantity int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, ticket_type_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (cart_id, ticket_type_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, cart_id, ticket_type_id, quantity, created_at, updated_at`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, cartID, ticketTypeID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.TicketTypeID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, models.NewPersistenceError("add cart item", err)
	}

	return item, nil
}

// UpdateItemQuantity sets the quantity of an item in the cart
func (r *CartRepository) UpdateItemQuantity(cartID, itemID, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $2 AND cart_id = $1
		RETURNING id, cart_id, ticket_type_id, quantity, created_at, updated_at`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, cartID, itemID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.TicketTypeID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, models.NewPersistenceError("update cart item", err)
	}

	return item, nil
}

// RemoveItem deletes an item from the cart
func (r *CartRepository) RemoveItem(cartID, itemID int) error {
	result, err := r.db.Exec("DELETE FROM cart_items WHERE id = $2 AND cart_id = $1", cartID, itemID)
	if err != nil {
		return models.NewPersistenceError("remove cart item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.NewPersistenceError("remove cart item", err)
	}

	if rowsAffected == 0 {
		return models.ErrCartItemNotFound
	}

	return nil
}

// Clear removes every item from the cart; the cart row itself persists.
func (r *CartRepository) Clear(cartID int) error {
	if _, err := r.db.Exec("DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return models.NewPersistenceError("clear cart", err)
	}
	return nil
}

// getItems loads the cart's lines joined with current catalog names and prices.
func (r *CartRepository) getItems(cartID int) ([]*models.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.ticket_type_id, tt.name, tt.price, ci.quantity, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN ticket_types tt ON ci.ticket_type_id = tt.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC`

	rows, err := r.db.Query(query, cartID)
	if err != nil {
		return nil, models.NewPersistenceError("get cart items", err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.TicketTypeID,
			&item.TicketTypeName,
			&item.Price,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, models.NewPersistenceError("scan cart item", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate cart items", err)
	}

	return items, nil
}
