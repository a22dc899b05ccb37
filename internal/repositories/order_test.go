package repositories

import (
	"errors"
	"testing"
	"time"

	"themepark-ticketing-platform/internal/models"
)

func TestOrderRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	userID := seedUser(t, db)
	ticketTypeID := seedTicketType(t, db, 4999)

	lines := []models.OrderLine{
		{
			TicketType: &models.TicketType{ID: ticketTypeID, Name: "Day Pass", Price: 4999},
			Quantity:   3,
		},
	}

	order, err := repo.Create(userID, time.Now().Add(48*time.Hour), "birthday trip", lines, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if order.Status != models.OrderPending {
		t.Errorf("Create() status = %v, want pending", order.Status)
	}
	if order.TotalAmount != 14997 {
		t.Errorf("Create() total = %d, want 14997", order.TotalAmount)
	}
	if len(order.Items) != 1 || len(order.Items[0].Tickets) != 3 {
		t.Errorf("Create() minted %d items, want 1 item with 3 tickets", len(order.Items))
	}
	if err := models.ValidateOrderNumber(order.OrderNumber); err != nil {
		t.Errorf("Create() order number %v invalid: %v", order.OrderNumber, err)
	}

	// The persisted ticket count per item matches the purchased quantity
	count, err := NewTicketRepository(db).CountByOrderItem(order.Items[0].ID)
	if err != nil {
		t.Fatalf("CountByOrderItem() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountByOrderItem() = %d, want 3", count)
	}
}

func TestOrderRepository_Create_MidSequenceFaultRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	userID := seedUser(t, db)
	ticketTypeID := seedTicketType(t, db, 4999)
	ghostTypeID := missingTicketTypeID(t, db)

	cartRepo := NewCartRepository(db)
	cart, err := cartRepo.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if _, err := cartRepo.AddItem(cart.ID, ticketTypeID, 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	// The first line persists its item and tickets, then the second line's
	// insert hits a foreign key violation mid-transaction.
	lines := []models.OrderLine{
		{TicketType: &models.TicketType{ID: ticketTypeID, Name: "Day Pass", Price: 4999}, Quantity: 2},
		{TicketType: &models.TicketType{ID: ghostTypeID, Name: "Ghost Pass", Price: 100}, Quantity: 1},
	}

	_, err = repo.Create(userID, time.Now().Add(48*time.Hour), "", lines, cart.ID)
	if err == nil {
		t.Fatal("Create() error = nil, want failure on the second line")
	}
	var perr *models.PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("Create() error = %v, want a persistence error", err)
	}

	// Nothing persisted: no orders for the user, no stray tickets
	orders, total, err := repo.ListByUser(userID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Errorf("ListByUser() returned %d orders after failed create, want 0", total)
	}

	tickets, err := NewTicketRepository(db).ListByUser(userID, false)
	if err != nil {
		t.Fatalf("ListByUser() tickets error = %v", err)
	}
	if len(tickets) != 0 {
		t.Errorf("ListByUser() returned %d tickets after failed create, want 0", len(tickets))
	}

	// The cart is untouched
	cart, err = cartRepo.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("cart items = %+v after failed create, want the original line intact", cart.Items)
	}
}

func TestOrderRepository_Create_ClearsSourceCart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	userID := seedUser(t, db)
	ticketTypeID := seedTicketType(t, db, 4999)

	cartRepo := NewCartRepository(db)
	cart, err := cartRepo.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if _, err := cartRepo.AddItem(cart.ID, ticketTypeID, 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	lines := []models.OrderLine{
		{TicketType: &models.TicketType{ID: ticketTypeID, Name: "Day Pass", Price: 4999}, Quantity: 2},
	}
	if _, err := repo.Create(userID, time.Now().Add(48*time.Hour), "", lines, cart.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cart, err = cartRepo.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("cart has %d items after checkout, want 0", len(cart.Items))
	}
}

func TestOrderRepository_UpdateStatusIfPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	userID := seedUser(t, db)
	ticketTypeID := seedTicketType(t, db, 4999)

	lines := []models.OrderLine{
		{TicketType: &models.TicketType{ID: ticketTypeID, Name: "Day Pass", Price: 4999}, Quantity: 1},
	}
	order, err := repo.Create(userID, time.Now().Add(48*time.Hour), "", lines, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	paid, err := repo.UpdateStatusIfPending(order.ID, userID, models.OrderPaid, "Credit Card")
	if err != nil {
		t.Fatalf("UpdateStatusIfPending() error = %v", err)
	}
	if paid.Status != models.OrderPaid {
		t.Errorf("status = %v, want paid", paid.Status)
	}

	// A second transition attempt must fail: the order is no longer pending
	if _, err := repo.UpdateStatusIfPending(order.ID, userID, models.OrderCancelled, ""); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("UpdateStatusIfPending() error = %v, want ErrInvalidTransition", err)
	}
}

func TestOrderRepository_GetByID_ScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	userID := seedUser(t, db)
	otherUserID := seedUser(t, db)
	ticketTypeID := seedTicketType(t, db, 4999)

	lines := []models.OrderLine{
		{TicketType: &models.TicketType{ID: ticketTypeID, Name: "Day Pass", Price: 4999}, Quantity: 1},
	}
	order, err := repo.Create(userID, time.Now().Add(48*time.Hour), "", lines, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.GetByID(order.ID, otherUserID); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("GetByID() with wrong user error = %v, want ErrOrderNotFound", err)
	}
}
