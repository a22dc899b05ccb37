package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"themepark-ticketing-platform/internal/models"
)

// OrderRepository handles order, order item and ticket creation
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create executes the checkout transaction: it inserts the order with a
// generated unique order number, its items with frozen unit prices, one ticket
// per purchased unit, recomputes the total, and clears the source cart's items
// when clearCartID is non-zero. Everything happens in a single transaction;
// any failure rolls the whole set back.
//
// Uniqueness of order and ticket numbers is enforced by database constraints;
// a collision aborts the transaction and the whole sequence is retried with
// fresh numbers.
func (r *OrderRepository) Create(userID int, visitDate time.Time, notes string, lines []models.OrderLine, clearCartID int) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		order, err := r.create(userID, visitDate, notes, lines, clearCartID)
		if err == nil {
			return order, nil
		}
		if !isUniqueViolation(err) {
			return nil, models.NewPersistenceError("create order", err)
		}
		lastErr = err
	}
	return nil, models.NewPersistenceError("create order: number collision retries exhausted", lastErr)
}

func (r *OrderRepository) create(userID int, visitDate time.Time, notes string, lines []models.OrderLine, clearCartID int) (*models.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: models.GenerateOrderNumber(),
		Status:      models.OrderPending,
		VisitDate:   visitDate,
		Notes:       notes,
	}

	err = tx.QueryRow(`
		INSERT INTO orders (id, user_id, order_number, total_amount, status, payment_method, visit_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, '', $5, $6, $7, $7)
		RETURNING created_at, updated_at`,
		order.ID, userID, order.OrderNumber, order.Status, visitDate, notes, now,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		item := &models.OrderItem{
			OrderID:        order.ID,
			TicketTypeID:   line.TicketType.ID,
			TicketTypeName: line.TicketType.Name,
			Quantity:       line.Quantity,
			UnitPrice:      line.TicketType.Price, // price frozen at checkout time
		}

		err = tx.QueryRow(`
			INSERT INTO order_items (order_id, ticket_type_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			order.ID, item.TicketTypeID, item.Quantity, item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}

		for i := 0; i < item.Quantity; i++ {
			ticket := &models.Ticket{
				ID:           uuid.New(),
				OrderItemID:  item.ID,
				TicketNumber: models.GenerateTicketNumber(),
			}

			err = tx.QueryRow(`
				INSERT INTO tickets (id, order_item_id, ticket_number, guest_name, is_used, created_at)
				VALUES ($1, $2, $3, '', FALSE, $4)
				RETURNING created_at`,
				ticket.ID, item.ID, ticket.TicketNumber, now,
			).Scan(&ticket.CreatedAt)
			if err != nil {
				return nil, err
			}

			item.Tickets = append(item.Tickets, ticket)
		}

		order.Items = append(order.Items, item)
	}

	// The total is recomputed from the persisted items, never trusted from input.
	order.TotalAmount = order.CalculateTotal()
	_, err = tx.Exec("UPDATE orders SET total_amount = $2 WHERE id = $1", order.ID, order.TotalAmount)
	if err != nil {
		return nil, err
	}

	if clearCartID > 0 {
		if _, err = tx.Exec("DELETE FROM cart_items WHERE cart_id = $1", clearCartID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByID retrieves an order with its items and tickets, scoped to the owning
// user. Orders belonging to other users surface as not found.
func (r *OrderRepository) GetByID(id uuid.UUID, userID int) (*models.Order, error) {
	query := `
		SELECT id, user_id, order_number, total_amount, status, payment_method, visit_date, notes, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	order := &models.Order{}
	err := r.db.QueryRow(query, id, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentMethod,
		&order.VisitDate,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, models.NewPersistenceError("get order", err)
	}

	items, err := r.getItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListByUser retrieves a user's orders, newest first
func (r *OrderRepository) ListByUser(userID, limit, offset int) ([]*models.Order, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, models.NewPersistenceError("count orders", err)
	}

	query := `
		SELECT id, user_id, order_number, total_amount, status, payment_method, visit_date, notes, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, 0, models.NewPersistenceError("list orders", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.TotalAmount,
			&order.Status,
			&order.PaymentMethod,
			&order.VisitDate,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, 0, models.NewPersistenceError("scan order", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, models.NewPersistenceError("iterate orders", err)
	}

	return orders, total, nil
}

// UpdateStatusIfPending transitions an order out of pending with a guarded
// update: the status check happens inside the UPDATE itself, so a concurrent
// transition on the same order turns into a normal ErrInvalidTransition
// instead of a lost write.
func (r *OrderRepository) UpdateStatusIfPending(id uuid.UUID, userID int, status models.OrderStatus, paymentMethod string) (*models.Order, error) {
	if err := models.ValidateOrderStatus(status); err != nil {
		return nil, err
	}

	query := `
		UPDATE orders
		SET status = $3, payment_method = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $5
		RETURNING id, user_id, order_number, total_amount, status, payment_method, visit_date, notes, created_at, updated_at`

	order := &models.Order{}
	err := r.db.QueryRow(query, id, userID, status, paymentMethod, models.OrderPending).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentMethod,
		&order.VisitDate,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == nil {
		items, err := r.getItems(order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		return order, nil
	}

	if err != sql.ErrNoRows {
		return nil, models.NewPersistenceError("update order status", err)
	}

	// Zero rows: distinguish a missing/foreign order from a stale status read.
	var current models.OrderStatus
	err = r.db.QueryRow("SELECT status FROM orders WHERE id = $1 AND user_id = $2", id, userID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, models.NewPersistenceError("get order status", err)
	}

	return nil, models.ErrInvalidTransition
}

// getItems loads an order's items with their tickets.
func (r *OrderRepository) getItems(orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.ticket_type_id, tt.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN ticket_types tt ON oi.ticket_type_id = tt.id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, models.NewPersistenceError("get order items", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.TicketTypeID, &item.TicketTypeName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, models.NewPersistenceError("scan order item", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate order items", err)
	}

	for _, item := range items {
		tickets, err := r.getTickets(item.ID)
		if err != nil {
			return nil, err
		}
		item.Tickets = tickets
	}

	return items, nil
}

func (r *OrderRepository) getTickets(orderItemID int) ([]*models.Ticket, error) {
	query := `
		SELECT id, order_item_id, ticket_number, guest_name, is_used, used_at, created_at
		FROM tickets
		WHERE order_item_id = $1
		ORDER BY created_at ASC, ticket_number ASC`

	rows, err := r.db.Query(query, orderItemID)
	if err != nil {
		return nil, models.NewPersistenceError("get tickets", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t := &models.Ticket{}
		err := rows.Scan(&t.ID, &t.OrderItemID, &t.TicketNumber, &t.GuestName, &t.IsUsed, &t.UsedAt, &t.CreatedAt)
		if err != nil {
			return nil, models.NewPersistenceError("scan ticket", err)
		}
		tickets = append(tickets, t)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate tickets", err)
	}

	return tickets, nil
}
