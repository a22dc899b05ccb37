package services

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/models"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	GetByID(id uuid.UUID, userID int) (*models.Ticket, error)
	ListByUser(userID int, validOnly bool) ([]*models.Ticket, error)
	MarkUsed(id uuid.UUID, userID int) (*models.Ticket, error)
	UpdateGuestName(id uuid.UUID, userID int, guestName string) (*models.Ticket, error)
}

// TicketService handles ticket lookups and lifecycle transitions
type TicketService struct {
	ticketRepo TicketRepository
	logger     *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository, logger *zap.Logger) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// GetTicket retrieves one of the user's tickets
func (s *TicketService) GetTicket(userID int, ticketID uuid.UUID) (*models.Ticket, error) {
	return s.ticketRepo.GetByID(ticketID, userID)
}

// ListTickets retrieves all of the user's tickets
func (s *TicketService) ListTickets(userID int) ([]*models.Ticket, error) {
	return s.ticketRepo.ListByUser(userID, false)
}

// ListValidTickets retrieves the user's usable tickets: paid order, not used.
func (s *TicketService) ListValidTickets(userID int) ([]*models.Ticket, error) {
	return s.ticketRepo.ListByUser(userID, true)
}

// MarkUsed marks a ticket as used exactly once, stamping used_at. There is no
// precondition on the owning order's status; a ticket from a pending order can
// be marked used.
func (s *TicketService) MarkUsed(userID int, ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.MarkUsed(ticketID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket used",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.Int("user_id", userID),
	)

	return ticket, nil
}

// UpdateGuestName sets the guest name on a ticket. Allowed only while the
// owning order is paid and the ticket unused.
func (s *TicketService) UpdateGuestName(userID int, ticketID uuid.UUID, guestName string) (*models.Ticket, error) {
	if strings.TrimSpace(guestName) == "" {
		return nil, models.ErrGuestNameRequired
	}

	return s.ticketRepo.UpdateGuestName(ticketID, userID, guestName)
}
