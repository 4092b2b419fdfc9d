package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("record donation: %w", Validation("amount", "must be greater than 0"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	fs := Fields(err)
	if len(fs) != 1 || fs[0].Field != "amount" {
		t.Fatalf("unexpected fields: %+v", fs)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	if c.Err() != nil {
		t.Fatal("empty collector must return nil")
	}
	c.Check(true, "title", "is required")
	c.Check(false, "amount", "must be greater than 0")
	c.Add("category", "is invalid")

	err := c.Err()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if got := len(Fields(err)); got != 2 {
		t.Fatalf("fields = %d, want 2", got)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("validation error must not match ErrConflict")
	}
}

func TestUnauthorizedAlias(t *testing.T) {
	if !errors.Is(fmt.Errorf("x: %w", ErrWrongRole), ErrUnauthorized) {
		t.Fatal("ErrUnauthorized should alias ErrWrongRole")
	}
}
