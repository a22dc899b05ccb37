package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError("get order", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() = false for wrapped cause, want true")
	}

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As() = false, want true")
	}
	if pe.Op != "get order" {
		t.Errorf("PersistenceError.Op = %v, want %q", pe.Op, "get order")
	}
}

func TestIsPersistenceError(t *testing.T) {
	err := NewPersistenceError("list tickets", errors.New("timeout"))

	if !IsPersistenceError(err) {
		t.Error("IsPersistenceError() = false for persistence error, want true")
	}
	if !IsPersistenceError(fmt.Errorf("outer: %w", err)) {
		t.Error("IsPersistenceError() = false for wrapped persistence error, want true")
	}
	if IsPersistenceError(ErrOrderNotFound) {
		t.Error("IsPersistenceError() = true for domain error, want false")
	}
}
