package models

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateTicketNumber(t *testing.T) {
	ticketNumber := GenerateTicketNumber()

	if !strings.HasPrefix(ticketNumber, "TIX") {
		t.Errorf("GenerateTicketNumber() = %v, want TIX prefix", ticketNumber)
	}
	if len(ticketNumber) != 19 {
		t.Errorf("GenerateTicketNumber() length = %d, want 19", len(ticketNumber))
	}

	datePart := ticketNumber[3:11]
	if datePart != time.Now().Format("20060102") {
		t.Errorf("GenerateTicketNumber() date part = %v, want today", datePart)
	}

	suffix := ticketNumber[11:]
	for _, c := range suffix {
		if !strings.ContainsRune(ticketNumberAlphabet, c) {
			t.Errorf("GenerateTicketNumber() suffix contains %q, want characters from alphabet", c)
		}
	}

	if err := ValidateTicketNumber(ticketNumber); err != nil {
		t.Errorf("ValidateTicketNumber(%v) = %v, want nil", ticketNumber, err)
	}
}

func TestGenerateTicketNumber_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := GenerateTicketNumber()
		if seen[n] {
			t.Fatalf("GenerateTicketNumber() produced duplicate %v", n)
		}
		seen[n] = true
	}
}

func TestValidateTicketNumber(t *testing.T) {
	tests := []struct {
		name         string
		ticketNumber string
		wantErr      bool
	}{
		{"valid", "TIX20240101A1B2C3D4", false},
		{"empty", "", true},
		{"wrong prefix", "ORD20240101A1B2C3D4", true},
		{"too short", "TIX2024A1B2", true},
		{"too long", "TIX20240101A1B2C3D4E5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTicketNumber(tt.ticketNumber)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTicketNumber() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTicket_CanBeUsed(t *testing.T) {
	unused := &Ticket{IsUsed: false}
	if !unused.CanBeUsed() {
		t.Error("CanBeUsed() = false for unused ticket, want true")
	}

	used := &Ticket{IsUsed: true}
	if used.CanBeUsed() {
		t.Error("CanBeUsed() = true for used ticket, want false")
	}
}

func TestTicket_GuestNameUpdatable(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus OrderStatus
		isUsed      bool
		want        bool
	}{
		{"paid and unused", OrderPaid, false, true},
		{"paid and used", OrderPaid, true, false},
		{"pending and unused", OrderPending, false, false},
		{"cancelled and unused", OrderCancelled, false, false},
		{"refunded and unused", OrderRefunded, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{IsUsed: tt.isUsed}
			if got := ticket.GuestNameUpdatable(tt.orderStatus); got != tt.want {
				t.Errorf("GuestNameUpdatable(%v) = %v, want %v", tt.orderStatus, got, tt.want)
			}
		})
	}
}

func TestTicket_IsValid(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus OrderStatus
		isUsed      bool
		want        bool
	}{
		{"paid and unused", OrderPaid, false, true},
		{"paid and used", OrderPaid, true, false},
		{"pending and unused", OrderPending, false, false},
		{"cancelled and unused", OrderCancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{IsUsed: tt.isUsed, OrderStatus: tt.orderStatus}
			if got := ticket.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
