package services

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/notify"
	"orderdesk/internal/repos"
)

// reorderThreshold: post-sale stock below this triggers a supplier reorder
// notification.
const reorderThreshold = 5

type OrderService struct {
	Products  *repos.ProductRepo
	Customers *repos.CustomerRepo
	Suppliers *repos.SupplierRepo
	Promos    *repos.PromotionRepo
	Orders    *repos.OrderRepo
	Shipments *repos.ShipmentRepo
	InvLog    *repos.InventoryLogRepo
	Pricing   *PricingService
	Notifier  notify.Notifier

	// mu serializes the check-then-act regions (submit, cancel, transitions)
	// so two submissions cannot both pass the availability check for the
	// same limited stock.
	mu sync.Mutex
}

func NewOrderService(
	products *repos.ProductRepo,
	customers *repos.CustomerRepo,
	suppliers *repos.SupplierRepo,
	promos *repos.PromotionRepo,
	orders *repos.OrderRepo,
	shipments *repos.ShipmentRepo,
	invLog *repos.InventoryLogRepo,
	pricing *PricingService,
	notifier notify.Notifier,
) *OrderService {
	return &OrderService{
		Products: products, Customers: customers, Suppliers: suppliers,
		Promos: promos, Orders: orders, Shipments: shipments, InvLog: invLog,
		Pricing: pricing, Notifier: notifier,
	}
}

// Submit runs the whole fulfillment pipeline: validate customer and stock,
// price, validate payment, then mutate stock/ledger and create the order.
// Every failure before the mutation step leaves no partial effects.
func (s *OrderService) Submit(
	customerID int64,
	items []domain.OrderItem,
	payment domain.PaymentInfo,
	promoCode string,
	method domain.ShippingMethod,
) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.Customers.Get(customerID)
	if err != nil {
		return domain.Order{}, &domain.NotFoundError{Entity: "customer", ID: customerID}
	}
	if customer.Tier == domain.TierSuspended {
		return domain.Order{}, &domain.InvalidStateError{Reason: "customer account is suspended"}
	}

	for _, it := range items {
		if it.Quantity <= 0 {
			return domain.Order{}, &domain.PricingError{Reason: "item quantity must be positive"}
		}
	}
	items = mergeLines(items)

	// Availability snapshot. Held consistent through mutation by s.mu.
	products := make(map[int64]domain.Product, len(items))
	for _, it := range items {
		p, err := s.Products.Get(it.ProductID)
		if err != nil {
			return domain.Order{}, &domain.NotFoundError{Entity: "product", ID: it.ProductID}
		}
		if p.Quantity < it.Quantity {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID: it.ProductID, Requested: it.Quantity, Available: p.Quantity,
			}
		}
		products[it.ProductID] = p
	}

	// An unknown promo code is not an error; it prices as no promotion.
	var promo *domain.Promotion
	if promoCode != "" {
		if p, err := s.Promos.GetByCode(promoCode); err == nil {
			promo = &p
		} else if err != sql.ErrNoRows {
			return domain.Order{}, err
		}
	}

	breakdown, err := s.Pricing.Price(customer, items, products, promo, method, time.Now())
	if err != nil {
		return domain.Order{}, err
	}

	if err := validatePayment(payment, breakdown.Total); err != nil {
		return domain.Order{}, err
	}

	orderID, err := s.Orders.NextID()
	if err != nil {
		return domain.Order{}, err
	}

	// Mutation phase. Failures past this point are treated as fatal for the
	// request; no compensating rollback is attempted.
	totalDiscount := breakdown.Subtotal - breakdown.AfterDiscounts
	for i, it := range items {
		ok, err := s.Products.Deduct(it.ProductID, it.Quantity)
		if err != nil {
			return domain.Order{}, err
		}
		if !ok {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID: it.ProductID, Requested: it.Quantity,
				Available: products[it.ProductID].Quantity,
			}
		}
		_ = s.InvLog.Append(it.ProductID, -it.Quantity, fmt.Sprintf("sale_order_%d", orderID))

		if breakdown.Subtotal > 0 {
			line := float64(it.Quantity) * it.UnitPrice
			items[i].DiscountApplied = totalDiscount * line / breakdown.Subtotal
		}
		items[i].OrderID = orderID
	}

	order := domain.Order{
		ID:            orderID,
		CustomerID:    customerID,
		Status:        domain.StatusPending,
		TotalPrice:    breakdown.Total,
		ShippingCost:  breakdown.ShippingCost,
		PaymentMethod: string(payment.Method),
		CreatedAt:     domain.FormatTime(time.Now()),
		Items:         items,
	}
	if err := s.Orders.Insert(order); err != nil {
		return domain.Order{}, err
	}

	// Loyalty: spend the redeemed points, then award 1 point per dollar of
	// the pre-discount subtotal (gross spend, not the charged total).
	if breakdown.LoyaltyPointsUsed > 0 {
		if err := s.Customers.AdjustLoyaltyPoints(customerID, -breakdown.LoyaltyPointsUsed); err != nil {
			return domain.Order{}, err
		}
	}
	if earned := int(math.Floor(breakdown.Subtotal)); earned > 0 {
		if err := s.Customers.AdjustLoyaltyPoints(customerID, earned); err != nil {
			return domain.Order{}, err
		}
	}
	if breakdown.PromoApplied != "" {
		if err := s.Promos.IncrementUsage(breakdown.PromoApplied); err != nil {
			return domain.Order{}, err
		}
	}

	applog.Audit(nil, "order.submit", map[string]any{
		"order_id": orderID, "customer_id": customerID, "total": breakdown.Total,
	})

	s.Notifier.Notify(customer.Email,
		fmt.Sprintf("Order %d confirmed. Total: $%.2f", orderID, breakdown.Total))

	// Low-stock reorder alerts for the products this order depleted.
	for _, it := range items {
		p, err := s.Products.Get(it.ProductID)
		if err != nil || p.Quantity >= reorderThreshold {
			continue
		}
		if sup, err := s.Suppliers.Get(p.SupplierID); err == nil {
			s.Notifier.Notify(sup.Email,
				fmt.Sprintf("Reorder needed: %s (product %d) down to %d units", p.Name, p.ID, p.Quantity))
		}
	}

	return order, nil
}

// mergeLines coalesces duplicate product lines into one line per product, so
// availability is checked against the aggregate demand and the stored order
// has at most one row per product. Quantities add; the merged unit price is
// the quantity-weighted average, which preserves the line totals.
func mergeLines(items []domain.OrderItem) []domain.OrderItem {
	merged := make([]domain.OrderItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, it := range items {
		i, seen := index[it.ProductID]
		if !seen {
			index[it.ProductID] = len(merged)
			merged = append(merged, it)
			continue
		}
		total := float64(merged[i].Quantity)*merged[i].UnitPrice + float64(it.Quantity)*it.UnitPrice
		merged[i].Quantity += it.Quantity
		merged[i].UnitPrice = total / float64(merged[i].Quantity)
	}
	return merged
}

func validatePayment(p domain.PaymentInfo, total float64) error {
	if !p.Valid {
		return domain.ErrPaymentInvalid
	}
	switch p.Method {
	case domain.PayCreditCard:
		if digitCount(p.CardNumber) < 16 {
			return domain.ErrPaymentInvalid
		}
	case domain.PayPayPal:
		if strings.TrimSpace(p.Email) == "" {
			return domain.ErrPaymentInvalid
		}
	default:
		return domain.ErrPaymentInvalid
	}
	if total-p.Amount > 1e-6 {
		return domain.ErrPaymentInsufficient
	}
	return nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func (s *OrderService) Get(orderID int64) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	return o, nil
}

// CustomerOrders returns a customer's order history, oldest first.
func (s *OrderService) CustomerOrders(customerID int64) ([]domain.Order, error) {
	if _, err := s.Customers.Get(customerID); err != nil {
		return nil, &domain.NotFoundError{Entity: "customer", ID: customerID}
	}
	return s.Orders.ListByCustomer(customerID)
}

// UpdateStatus moves an order through the state machine. Transitions outside
// the table fail with InvalidStateError. Cancellations route through Cancel
// so stock restoration always happens. Shipping an already-shipped order is
// an idempotent no-op.
func (s *OrderService) UpdateStatus(orderID int64, next domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidStatus(next) {
		return domain.Order{}, &domain.InvalidStateError{Reason: fmt.Sprintf("unknown status %q", next)}
	}
	if next == domain.StatusCancelled {
		return s.Cancel(orderID, "status update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: orderID}
	}

	if next == domain.StatusShipped && order.Status == domain.StatusShipped {
		// Second ship request: return the existing record, no new tracking.
		return order, nil
	}
	if !domain.CanTransition(order.Status, next) {
		return domain.Order{}, &domain.InvalidStateError{
			Reason: fmt.Sprintf("cannot move order %d from %s to %s", orderID, order.Status, next),
		}
	}

	if err := s.Orders.UpdateStatus(orderID, next); err != nil {
		return domain.Order{}, err
	}
	order.Status = next

	if next == domain.StatusShipped && order.TrackingNumber == "" {
		tracking := newTrackingNumber(orderID)
		if _, err := s.Shipments.Insert(domain.Shipment{
			OrderID:        orderID,
			TrackingNumber: tracking,
			Status:         domain.ShipmentInTransit,
			CreatedAt:      domain.FormatTime(time.Now()),
		}); err != nil {
			return domain.Order{}, err
		}
		if err := s.Orders.SetTracking(orderID, tracking); err != nil {
			return domain.Order{}, err
		}
		order.TrackingNumber = tracking
	}
	if next == domain.StatusDelivered && order.TrackingNumber != "" {
		_ = s.Shipments.UpdateStatus(order.TrackingNumber, domain.ShipmentDelivered)
	}

	if c, err := s.Customers.Get(order.CustomerID); err == nil {
		s.Notifier.Notify(c.Email, fmt.Sprintf("Order %d status changed to %s", orderID, next))
	}
	return order, nil
}

// newTrackingNumber builds an opaque, collision-resistant token that still
// embeds the order id for human traceability.
func newTrackingNumber(orderID int64) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRACK%d%s", orderID, token)
}

// Cancel aborts a pending order, restoring each item's stock. Loyalty points
// spent on the order are not refunded, and promo usage counters stay
// incremented.
func (s *OrderService) Cancel(orderID int64, reason string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	if order.Status != domain.StatusPending {
		return domain.Order{}, &domain.InvalidStateError{
			Reason: fmt.Sprintf("cannot cancel order %d in status %s", orderID, order.Status),
		}
	}

	for _, it := range order.Items {
		if err := s.Products.Restore(it.ProductID, it.Quantity); err != nil {
			return domain.Order{}, err
		}
		_ = s.InvLog.Append(it.ProductID, it.Quantity, fmt.Sprintf("order_cancelled_%d", orderID))
	}

	if err := s.Orders.UpdateStatus(orderID, domain.StatusCancelled); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.StatusCancelled

	applog.Audit(nil, "order.cancel", map[string]any{"order_id": orderID, "reason": reason})
	if c, err := s.Customers.Get(order.CustomerID); err == nil {
		s.Notifier.Notify(c.Email, fmt.Sprintf("Order %d cancelled: %s", orderID, reason))
	}
	return order, nil
}

// ApplyAdditionalDiscount is the manual override: it multiplies the stored
// total directly and is only allowed while the order is pending.
func (s *OrderService) ApplyAdditionalDiscount(orderID int64, pct float64, reason string) (domain.Order, error) {
	if pct <= 0 || pct > 100 {
		return domain.Order{}, &domain.PricingError{Reason: "discount percent must be in (0,100]"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	if order.Status != domain.StatusPending {
		return domain.Order{}, &domain.InvalidStateError{
			Reason: fmt.Sprintf("can only discount pending orders; order %d is %s", orderID, order.Status),
		}
	}

	newTotal := AdditionalDiscount(order.TotalPrice, pct)
	if err := s.Orders.UpdateTotal(orderID, newTotal); err != nil {
		return domain.Order{}, err
	}
	applog.Audit(nil, "order.discount", map[string]any{
		"order_id": orderID, "pct": pct, "reason": reason,
		"old_total": order.TotalPrice, "new_total": newTotal,
	})
	order.TotalPrice = newTotal
	return order, nil
}
