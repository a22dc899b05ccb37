package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService abstracts payment processing for order payment. Refund is
// the compensation hook for a charge whose order transition was lost to a
// concurrent state change.
type PaymentService interface {
	ProcessPayment(amount int, paymentMethod string) (*PaymentResult, error)
	Refund(transactionID string) error
}

// PaymentResult represents the outcome of a processed payment
type PaymentResult struct {
	TransactionID string
	Amount        int // in cents
	PaymentMethod string
	ProcessedAt   time.Time
}

// SimulatedPaymentService approves every payment and mints a transaction id.
// No gateway is involved; real payment integration is a non-goal.
type SimulatedPaymentService struct {
	logger *zap.Logger
}

// NewSimulatedPaymentService creates a new simulated payment service
func NewSimulatedPaymentService(logger *zap.Logger) *SimulatedPaymentService {
	return &SimulatedPaymentService{logger: logger}
}

// ProcessPayment simulates a successful payment
func (s *SimulatedPaymentService) ProcessPayment(amount int, paymentMethod string) (*PaymentResult, error) {
	result := &PaymentResult{
		TransactionID: fmt.Sprintf("sim_%s", uuid.New().String()),
		Amount:        amount,
		PaymentMethod: paymentMethod,
		ProcessedAt:   time.Now(),
	}

	s.logger.Info("simulated payment processed",
		zap.String("transaction_id", result.TransactionID),
		zap.Int("amount", amount),
		zap.String("payment_method", paymentMethod),
	)

	return result, nil
}

// Refund simulates reversing a processed payment
func (s *SimulatedPaymentService) Refund(transactionID string) error {
	s.logger.Info("simulated payment refunded",
		zap.String("transaction_id", transactionID),
	)
	return nil
}
