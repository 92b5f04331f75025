package services_test

import (
	"errors"
	"testing"

	"orderdesk/internal/domain"
)

func TestRestock(t *testing.T) {
	f := newFixture(t)

	p, err := f.invSvc.Restock(3, 20, 1)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if p.Quantity != 26 {
		t.Fatalf("quantity = %d, want 26", p.Quantity)
	}

	logs, err := f.invSvc.Logs(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Change != 20 || logs[0].Reason != "restock" {
		t.Fatalf("ledger = %+v", logs)
	}
}

func TestRestockSupplierMismatch(t *testing.T) {
	f := newFixture(t)

	var inv *domain.InvalidStateError
	if _, err := f.invSvc.Restock(3, 20, 42); !errors.As(err, &inv) {
		t.Fatalf("wrong supplier: err = %v", err)
	}
	if got := stockOf(t, f, 3); got != 6 {
		t.Fatalf("stock changed on rejected restock: %d", got)
	}

	// Supplier id 0 skips the check.
	if _, err := f.invSvc.Restock(3, 1, 0); err != nil {
		t.Fatalf("unattributed restock: %v", err)
	}
}

func TestRestockValidation(t *testing.T) {
	f := newFixture(t)

	var perr *domain.PricingError
	if _, err := f.invSvc.Restock(3, 0, 1); !errors.As(err, &perr) {
		t.Fatalf("zero qty: err = %v", err)
	}

	var nf *domain.NotFoundError
	if _, err := f.invSvc.Restock(999, 5, 1); !errors.As(err, &nf) {
		t.Fatalf("unknown product: err = %v", err)
	}
}

func TestLowStock(t *testing.T) {
	f := newFixture(t)

	low, err := f.invSvc.LowStock(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 || low[0].ID != 3 {
		t.Fatalf("low stock = %+v", low)
	}

	// Threshold is inclusive.
	low, err = f.invSvc.LowStock(6)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 {
		t.Fatalf("inclusive threshold: %+v", low)
	}

	low, err = f.invSvc.LowStock(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 0 {
		t.Fatalf("below stock level: %+v", low)
	}
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)

	ok, err := f.invSvc.CheckAvailability(3, 6)
	if err != nil || !ok {
		t.Fatalf("available: %v %v", ok, err)
	}
	ok, err = f.invSvc.CheckAvailability(3, 7)
	if err != nil || ok {
		t.Fatalf("over stock: %v %v", ok, err)
	}

	var nf *domain.NotFoundError
	if _, err := f.invSvc.CheckAvailability(999, 1); !errors.As(err, &nf) {
		t.Fatalf("unknown product: err = %v", err)
	}
}
