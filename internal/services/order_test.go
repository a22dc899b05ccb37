package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/models"
)

// Mock implementations for testing

type mockCatalog struct {
	ticketTypes map[int]*models.TicketType
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{ticketTypes: make(map[int]*models.TicketType)}
}

func (m *mockCatalog) addTicketType(id, price int, active bool) *models.TicketType {
	tt := &models.TicketType{
		ID:       id,
		ParkID:   1,
		Name:     "Day Pass",
		Price:    price,
		IsActive: active,
	}
	m.ticketTypes[id] = tt
	return tt
}

func (m *mockCatalog) GetTicketTypeByID(id int) (*models.TicketType, error) {
	tt, exists := m.ticketTypes[id]
	if !exists {
		return nil, models.ErrTicketTypeNotFound
	}
	return tt, nil
}

type mockCartRepository struct {
	cart          *models.Cart
	clearedCartID int
	nextItemID    int
	shouldFailOps map[string]bool
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		cart:          &models.Cart{ID: 1, UserID: 1},
		nextItemID:    1,
		shouldFailOps: make(map[string]bool),
	}
}

func (m *mockCartRepository) GetOrCreate(userID int) (*models.Cart, error) {
	if m.shouldFailOps["GetOrCreate"] {
		return nil, errors.New("mock error")
	}
	return m.cart, nil
}

func (m *mockCartRepository) AddItem(cartID, ticketTypeID, quantity int) (*models.CartItem, error) {
	if m.shouldFailOps["AddItem"] {
		return nil, errors.New("mock error")
	}
	for _, item := range m.cart.Items {
		if item.TicketTypeID == ticketTypeID {
			item.Quantity += quantity
			return item, nil
		}
	}
	item := &models.CartItem{
		ID:           m.nextItemID,
		CartID:       cartID,
		TicketTypeID: ticketTypeID,
		Quantity:     quantity,
	}
	m.nextItemID++
	m.cart.Items = append(m.cart.Items, item)
	return item, nil
}

func (m *mockCartRepository) UpdateItemQuantity(cartID, itemID, quantity int) (*models.CartItem, error) {
	for _, item := range m.cart.Items {
		if item.ID == itemID {
			item.Quantity = quantity
			return item, nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

func (m *mockCartRepository) RemoveItem(cartID, itemID int) error {
	for i, item := range m.cart.Items {
		if item.ID == itemID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return models.ErrCartItemNotFound
}

func (m *mockCartRepository) Clear(cartID int) error {
	m.clearedCartID = cartID
	m.cart.Items = nil
	return nil
}

type mockOrderRepository struct {
	orders             map[uuid.UUID]*models.Order
	cartRepo           *mockCartRepository
	clearedCartID      int
	shouldFailOps      map[string]bool
	beforeUpdateStatus func()
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders:        make(map[uuid.UUID]*models.Order),
		shouldFailOps: make(map[string]bool),
	}
}

// Create mirrors the persistence contract: frozen unit prices, one ticket per
// purchased unit, computed total, cart cleared in the same operation.
func (m *mockOrderRepository) Create(userID int, visitDate time.Time, notes string, lines []models.OrderLine, clearCartID int) (*models.Order, error) {
	if m.shouldFailOps["Create"] {
		return nil, errors.New("mock error")
	}

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: models.GenerateOrderNumber(),
		Status:      models.OrderPending,
		VisitDate:   visitDate,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	for i, line := range lines {
		item := &models.OrderItem{
			ID:             i + 1,
			OrderID:        order.ID,
			TicketTypeID:   line.TicketType.ID,
			TicketTypeName: line.TicketType.Name,
			Quantity:       line.Quantity,
			UnitPrice:      line.TicketType.Price,
		}
		for j := 0; j < line.Quantity; j++ {
			item.Tickets = append(item.Tickets, &models.Ticket{
				ID:           uuid.New(),
				OrderItemID:  item.ID,
				TicketNumber: models.GenerateTicketNumber(),
			})
		}
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = order.CalculateTotal()

	m.orders[order.ID] = order
	m.clearedCartID = clearCartID
	if clearCartID > 0 && m.cartRepo != nil {
		m.cartRepo.Clear(clearCartID)
	}

	return order, nil
}

func (m *mockOrderRepository) GetByID(id uuid.UUID, userID int) (*models.Order, error) {
	order, exists := m.orders[id]
	if !exists || order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUser(userID, limit, offset int) ([]*models.Order, int, error) {
	var result []*models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, len(result), nil
}

func (m *mockOrderRepository) UpdateStatusIfPending(id uuid.UUID, userID int, status models.OrderStatus, paymentMethod string) (*models.Order, error) {
	if m.beforeUpdateStatus != nil {
		m.beforeUpdateStatus()
	}
	order, exists := m.orders[id]
	if !exists || order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}
	if order.Status != models.OrderPending {
		return nil, models.ErrInvalidTransition
	}
	order.Status = status
	if paymentMethod != "" {
		order.PaymentMethod = paymentMethod
	}
	return order, nil
}

type mockPaymentService struct {
	calls      []int
	refunds    []string
	shouldFail bool
}

func (m *mockPaymentService) ProcessPayment(amount int, paymentMethod string) (*PaymentResult, error) {
	if m.shouldFail {
		return nil, errors.New("payment declined")
	}
	m.calls = append(m.calls, amount)
	return &PaymentResult{
		TransactionID: "txn_test",
		Amount:        amount,
		PaymentMethod: paymentMethod,
		ProcessedAt:   time.Now(),
	}, nil
}

func (m *mockPaymentService) Refund(transactionID string) error {
	m.refunds = append(m.refunds, transactionID)
	return nil
}

func newTestOrderService() (*OrderService, *mockOrderRepository, *mockCartRepository, *mockCatalog, *mockPaymentService) {
	catalog := newMockCatalog()
	cartRepo := newMockCartRepository()
	orderRepo := newMockOrderRepository()
	orderRepo.cartRepo = cartRepo
	payments := &mockPaymentService{}
	svc := NewOrderService(orderRepo, cartRepo, catalog, payments, zap.NewNop())
	return svc, orderRepo, cartRepo, catalog, payments
}

func futureVisitDate() time.Time {
	return time.Now().Add(48 * time.Hour)
}

func TestOrderService_Checkout_DirectItems(t *testing.T) {
	svc, orderRepo, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items: []models.CheckoutItem{
			{TicketTypeID: 1, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4999, order.Items[0].UnitPrice)
	assert.Equal(t, 14997, order.TotalAmount)
	assert.Len(t, order.Items[0].Tickets, 3)

	// A direct checkout never touches the cart
	assert.Equal(t, 0, orderRepo.clearedCartID)
}

func TestOrderService_Checkout_FromCart(t *testing.T) {
	svc, orderRepo, cartRepo, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)
	catalog.addTicketType(2, 10950, true)

	cartRepo.AddItem(1, 1, 2)
	cartRepo.AddItem(1, 2, 1)

	order, err := svc.Checkout(1, &models.CheckoutRequest{VisitDate: futureVisitDate()})
	require.NoError(t, err)

	assert.Equal(t, 2*4999+10950, order.TotalAmount)
	require.Len(t, order.Items, 2)

	// Cart is emptied atomically with order creation
	assert.Equal(t, 1, orderRepo.clearedCartID)
	assert.True(t, cartRepo.cart.IsEmpty())
}

func TestOrderService_Checkout_PriceFrozenAtCheckout(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	tt := catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// A later catalog price change must not affect the existing order
	tt.Price = 9999
	assert.Equal(t, 4999, order.Items[0].UnitPrice)
	assert.Equal(t, 4999, order.TotalAmount)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	svc, _, _, _, _ := newTestOrderService()

	_, err := svc.Checkout(1, &models.CheckoutRequest{VisitDate: futureVisitDate()})
	assert.ErrorIs(t, err, models.ErrEmptyOrder)
}

func TestOrderService_Checkout_PastVisitDate(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	_, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: time.Now().Add(-48 * time.Hour),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidVisitDate)
}

func TestOrderService_Checkout_UnknownTicketType(t *testing.T) {
	svc, _, _, _, _ := newTestOrderService()

	_, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrTicketTypeUnavailable)
}

func TestOrderService_Checkout_InactiveTicketType(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, false)

	_, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrTicketTypeUnavailable)
}

func TestOrderService_Checkout_QuantityOutOfRange(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	for _, quantity := range []int{0, -1, models.MaxTicketsPerLine + 1} {
		_, err := svc.Checkout(1, &models.CheckoutRequest{
			VisitDate: futureVisitDate(),
			Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: quantity}},
		})
		assert.ErrorIs(t, err, models.ErrQuantityOutOfRange, "quantity %d", quantity)
	}
}

func TestOrderService_Checkout_AvailabilityCheckedBeforeQuantity(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	// Line 1 has a bad quantity, line 2 an unknown type; the availability
	// pass over all lines runs first, so the unknown type wins
	_, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items: []models.CheckoutItem{
			{TicketTypeID: 1, Quantity: 0},
			{TicketTypeID: 99, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, models.ErrTicketTypeUnavailable)
}

func TestOrderService_Checkout_VisitDateCheckedBeforeLines(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	// Both the date and the quantity are invalid; the date fails first
	_, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: time.Now().Add(-48 * time.Hour),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidVisitDate)
}

func TestOrderService_Checkout_NothingPersistedOnFailure(t *testing.T) {
	svc, orderRepo, cartRepo, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)
	cartRepo.AddItem(1, 1, 2)
	orderRepo.shouldFailOps["Create"] = true

	_, err := svc.Checkout(1, &models.CheckoutRequest{VisitDate: futureVisitDate()})
	require.Error(t, err)

	assert.Empty(t, orderRepo.orders)
	assert.False(t, cartRepo.cart.IsEmpty(), "cart must survive a failed checkout")
}

func TestOrderService_Pay(t *testing.T) {
	svc, _, _, catalog, payments := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	paid, err := svc.Pay(1, order.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderPaid, paid.Status)
	assert.Equal(t, DefaultPaymentMethod, paid.PaymentMethod)
	assert.Equal(t, []int{9998}, payments.calls)
}

func TestOrderService_Pay_AlreadyPaid(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Pay(1, order.ID, "card")
	require.NoError(t, err)

	_, err = svc.Pay(1, order.ID, "card")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrderService_Pay_PaymentFailureKeepsOrderPending(t *testing.T) {
	svc, orderRepo, _, catalog, payments := newTestOrderService()
	catalog.addTicketType(1, 4999, true)
	payments.shouldFail = true

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Pay(1, order.ID, "card")
	require.Error(t, err)

	stored, err := orderRepo.GetByID(order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestOrderService_Pay_RefundsWhenCancelWinsRace(t *testing.T) {
	svc, orderRepo, _, catalog, payments := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// Cancel slips in after the charge but before the guarded status update
	raced := false
	orderRepo.beforeUpdateStatus = func() {
		if !raced {
			raced = true
			orderRepo.orders[order.ID].Status = models.OrderCancelled
		}
	}

	_, err = svc.Pay(1, order.ID, "card")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// The processed payment is compensated and the order stays cancelled
	assert.Equal(t, []string{"txn_test"}, payments.refunds)
	assert.Equal(t, models.OrderCancelled, orderRepo.orders[order.ID].Status)
}

func TestOrderService_Pay_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTestOrderService()

	_, err := svc.Pay(1, uuid.New(), "card")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestOrderService_Cancel(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestOrderService_Cancel_PaidOrder(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Pay(1, order.ID, "card")
	require.NoError(t, err)

	_, err = svc.Cancel(1, order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrderService_GetOrder_ScopedToUser(t *testing.T) {
	svc, _, _, catalog, _ := newTestOrderService()
	catalog.addTicketType(1, 4999, true)

	order, err := svc.Checkout(1, &models.CheckoutRequest{
		VisitDate: futureVisitDate(),
		Items:     []models.CheckoutItem{{TicketTypeID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.GetOrder(2, order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
