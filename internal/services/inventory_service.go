package services

import (
	"fmt"
	"sync"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
)

type InventoryService struct {
	Products *repos.ProductRepo
	InvLog   *repos.InventoryLogRepo

	mu sync.Mutex
}

func NewInventoryService(products *repos.ProductRepo, invLog *repos.InventoryLogRepo) *InventoryService {
	return &InventoryService{Products: products, InvLog: invLog}
}

// Restock adds stock to a product. When a supplier id is given it must match
// the product's supplier.
func (s *InventoryService) Restock(productID int64, qty int, supplierID int64) (domain.Product, error) {
	if qty <= 0 {
		return domain.Product{}, &domain.PricingError{Reason: "restock quantity must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Products.Get(productID)
	if err != nil {
		return domain.Product{}, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	if supplierID != 0 && p.SupplierID != supplierID {
		return domain.Product{}, &domain.InvalidStateError{
			Reason: fmt.Sprintf("supplier %d does not supply product %d", supplierID, productID),
		}
	}

	if err := s.Products.Restore(productID, qty); err != nil {
		return domain.Product{}, err
	}
	_ = s.InvLog.Append(productID, qty, "restock")

	p.Quantity += qty
	applog.Info(nil, "inventory.restock", map[string]any{
		"product_id": productID, "qty": qty, "new_stock": p.Quantity,
	})
	return p, nil
}

// LowStock lists products at or below the threshold.
func (s *InventoryService) LowStock(threshold int) ([]domain.Product, error) {
	if threshold < 0 {
		threshold = 0
	}
	return s.Products.LowStock(threshold)
}

// CheckAvailability reports whether the product has the required stock.
func (s *InventoryService) CheckAvailability(productID int64, required int) (bool, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		return false, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	return p.Quantity >= required, nil
}

// Logs returns the inventory change history for a product.
func (s *InventoryService) Logs(productID int64) ([]domain.InventoryLog, error) {
	if _, err := s.Products.Get(productID); err != nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	return s.InvLog.ListByProduct(productID)
}
