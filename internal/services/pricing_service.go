package services

import (
	"math"
	"strings"
	"time"

	"orderdesk/internal/domain"
)

// Membership discount rates by tier.
var tierRates = map[domain.MembershipTier]float64{
	domain.TierGold:   0.15,
	domain.TierSilver: 0.07,
	domain.TierBronze: 0.03,
}

// PriceBreakdown is the full result of pricing one order request. It carries
// the pending ledger mutations (loyalty points used, promo application) so
// the caller can commit them after payment validation succeeds; pricing
// itself mutates nothing.
type PriceBreakdown struct {
	Subtotal          float64 `json:"subtotal"`
	TotalWeight       float64 `json:"total_weight"`
	MembershipRate    float64 `json:"membership_rate"`
	PromoRate         float64 `json:"promo_rate"`
	BulkRate          float64 `json:"bulk_rate"`
	LoyaltyDiscount   float64 `json:"loyalty_discount"`
	LoyaltyPointsUsed int     `json:"loyalty_points_used"`
	PromoApplied      string  `json:"promo_applied,omitempty"`
	AfterDiscounts    float64 `json:"after_discounts"` // subtotal after loyalty redemption
	ShippingCost      float64 `json:"shipping_cost"`
	Tax               float64 `json:"tax"`
	Total             float64 `json:"total"`
}

type PricingService struct{}

func NewPricingService() *PricingService { return &PricingService{} }

// Price computes the charge for an order request against a catalog/ledger
// snapshot. The discount stack is applied in a fixed order: membership, then
// promotion, then bulk (each multiplicative), then loyalty redemption
// (subtractive), then shipping and tax. Changing the order changes the total.
//
// A missing, expired or otherwise non-applicable promotion silently yields a
// zero discount; only malformed input is an error.
func (s *PricingService) Price(
	customer domain.Customer,
	items []domain.OrderItem,
	products map[int64]domain.Product,
	promo *domain.Promotion,
	method domain.ShippingMethod,
	now time.Time,
) (PriceBreakdown, error) {
	if len(items) == 0 {
		return PriceBreakdown{}, &domain.PricingError{Reason: "order has no items"}
	}

	var b PriceBreakdown
	totalQty := 0
	for _, it := range items {
		if it.Quantity <= 0 {
			return PriceBreakdown{}, &domain.PricingError{Reason: "item quantity must be positive"}
		}
		b.Subtotal += float64(it.Quantity) * it.UnitPrice
		if p, ok := products[it.ProductID]; ok {
			b.TotalWeight += float64(it.Quantity) * p.Weight
		}
		totalQty += it.Quantity
	}

	// Membership discount.
	b.MembershipRate = tierRates[customer.Tier]
	sub := b.Subtotal * (1 - b.MembershipRate)

	// Promotion discount. Threshold and category applicability are checked
	// against the pre-discount subtotal; the rate applies to the running one.
	if promo != nil && s.promoApplies(*promo, b.Subtotal, items, products, now) {
		b.PromoRate = promo.DiscountPercent / 100
		b.PromoApplied = promo.Code
	}
	sub *= 1 - b.PromoRate

	// Bulk discount keys on total item quantity, not dollar amount.
	switch {
	case totalQty >= 10:
		b.BulkRate = 0.05
	case totalQty >= 5:
		b.BulkRate = 0.02
	}
	sub *= 1 - b.BulkRate

	// Loyalty redemption: subtractive, capped at 10% of the running subtotal
	// and by the points balance at 1 cent per point.
	if customer.LoyaltyPoints >= 100 {
		b.LoyaltyDiscount = math.Min(sub*0.10, float64(customer.LoyaltyPoints)*0.01)
		// An epsilon before the floor keeps float noise in the cents
		// conversion from eating a point (116 * 0.01 * 100 < 116).
		b.LoyaltyPointsUsed = int(math.Floor(b.LoyaltyDiscount*100 + 1e-9))
	}
	b.AfterDiscounts = sub - b.LoyaltyDiscount

	b.ShippingCost = s.shippingCost(method, b.TotalWeight, b.AfterDiscounts, customer.Tier)
	b.Tax = b.AfterDiscounts * taxRate(customer.Address)
	b.Total = b.AfterDiscounts + b.ShippingCost + b.Tax
	return b, nil
}

func (s *PricingService) promoApplies(
	p domain.Promotion,
	subtotal float64,
	items []domain.OrderItem,
	products map[int64]domain.Product,
	now time.Time,
) bool {
	if !now.Before(domain.ParseTime(p.ValidUntil)) {
		return false
	}
	if subtotal < p.MinPurchase {
		return false
	}
	for _, it := range items {
		prod, ok := products[it.ProductID]
		if !ok {
			continue
		}
		if p.Category == "all" || prod.Category == p.Category {
			return true
		}
	}
	return false
}

func (s *PricingService) shippingCost(
	method domain.ShippingMethod,
	weight, subtotal float64,
	tier domain.MembershipTier,
) float64 {
	switch method {
	case domain.ShipExpress:
		cost := 25 + weight*0.5
		if tier == domain.TierGold {
			cost *= 0.5
		}
		return cost
	case domain.ShipOvernight:
		return 50 + weight*1.0
	default: // standard: free over $50
		if subtotal >= 50 {
			return 0
		}
		return 5 + weight*0.2
	}
}

// taxRate picks a rate by state token in the address text; unknown or empty
// addresses fall back to the default rate.
func taxRate(address string) float64 {
	switch {
	case strings.Contains(address, "CA"):
		return 0.0725
	case strings.Contains(address, "NY"):
		return 0.04
	case strings.Contains(address, "TX"):
		return 0.0625
	}
	return 0.08
}

// AdditionalDiscount is the manual override applied by support staff to a
// pending order. It bypasses the discount stack entirely.
func AdditionalDiscount(current, pct float64) float64 {
	return current - current*(pct/100)
}
