package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"themepark-ticketing-platform/internal/models"
)

// TicketRepository handles individual ticket data operations. Tickets are
// created only by the checkout transaction in OrderRepository; this repository
// covers lookups and the usage/guest-name transitions.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketSelect = `
	SELECT t.id, t.order_item_id, t.ticket_number, t.guest_name, t.is_used, t.used_at, t.created_at,
	       tt.name, p.name, o.visit_date, o.status
	FROM tickets t
	JOIN order_items oi ON t.order_item_id = oi.id
	JOIN orders o ON oi.order_id = o.id
	JOIN ticket_types tt ON oi.ticket_type_id = tt.id
	JOIN parks p ON tt.park_id = p.id`

func scanTicket(row interface{ Scan(...interface{}) error }) (*models.Ticket, error) {
	t := &models.Ticket{}
	err := row.Scan(
		&t.ID,
		&t.OrderItemID,
		&t.TicketNumber,
		&t.GuestName,
		&t.IsUsed,
		&t.UsedAt,
		&t.CreatedAt,
		&t.TicketTypeName,
		&t.ParkName,
		&t.VisitDate,
		&t.OrderStatus,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a ticket scoped to the owning user
func (r *TicketRepository) GetByID(id uuid.UUID, userID int) (*models.Ticket, error) {
	query := ticketSelect + `
	WHERE t.id = $1 AND o.user_id = $2`

	ticket, err := scanTicket(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, models.NewPersistenceError("get ticket", err)
	}

	return ticket, nil
}

// ListByUser retrieves a user's tickets, newest orders first. With validOnly
// set, only usable tickets (paid order, not yet used) are returned.
func (r *TicketRepository) ListByUser(userID int, validOnly bool) ([]*models.Ticket, error) {
	query := ticketSelect + `
	WHERE o.user_id = $1`
	if validOnly {
		query += ` AND t.is_used = FALSE AND o.status = '` + string(models.OrderPaid) + `'`
	}
	query += `
	ORDER BY o.created_at DESC, t.ticket_number ASC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, models.NewPersistenceError("list tickets", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, models.NewPersistenceError("scan ticket", err)
		}
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate tickets", err)
	}

	return tickets, nil
}

// MarkUsed flips is_used exactly once and stamps used_at. The is_used check
// sits inside the UPDATE, so a concurrent second scan of the same ticket gets
// ErrTicketAlreadyUsed rather than overwriting the first usage time.
func (r *TicketRepository) MarkUsed(id uuid.UUID, userID int) (*models.Ticket, error) {
	query := `
		UPDATE tickets t
		SET is_used = TRUE, used_at = $3
		FROM order_items oi, orders o
		WHERE t.id = $1
		  AND t.order_item_id = oi.id
		  AND oi.order_id = o.id
		  AND o.user_id = $2
		  AND t.is_used = FALSE`

	result, err := r.db.Exec(query, id, userID, time.Now())
	if err != nil {
		return nil, models.NewPersistenceError("mark ticket used", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, models.NewPersistenceError("mark ticket used", err)
	}

	if rowsAffected == 0 {
		// Either the ticket isn't this user's, or it was already used.
		ticket, err := r.GetByID(id, userID)
		if err != nil {
			return nil, err
		}
		if ticket.IsUsed {
			return nil, models.ErrTicketAlreadyUsed
		}
		return nil, models.NewPersistenceError("mark ticket used", sql.ErrNoRows)
	}

	return r.GetByID(id, userID)
}

// UpdateGuestName sets the guest name while the ticket is still updatable:
// owning order paid and ticket unused. The window check is part of the UPDATE.
func (r *TicketRepository) UpdateGuestName(id uuid.UUID, userID int, guestName string) (*models.Ticket, error) {
	query := `
		UPDATE tickets t
		SET guest_name = $3
		FROM order_items oi, orders o
		WHERE t.id = $1
		  AND t.order_item_id = oi.id
		  AND oi.order_id = o.id
		  AND o.user_id = $2
		  AND o.status = $4
		  AND t.is_used = FALSE`

	result, err := r.db.Exec(query, id, userID, guestName, models.OrderPaid)
	if err != nil {
		return nil, models.NewPersistenceError("update guest name", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, models.NewPersistenceError("update guest name", err)
	}

	if rowsAffected == 0 {
		// Distinguish a missing ticket from one outside the paid+unused window.
		if _, err := r.GetByID(id, userID); err != nil {
			return nil, err
		}
		return nil, models.ErrTicketNotUpdatable
	}

	return r.GetByID(id, userID)
}

// CountByOrderItem returns the number of tickets under an order item
func (r *TicketRepository) CountByOrderItem(orderItemID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tickets WHERE order_item_id = $1", orderItemID).Scan(&count)
	if err != nil {
		return 0, models.NewPersistenceError("count tickets", err)
	}
	return count, nil
}
