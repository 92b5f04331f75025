package domain

import "time"

// Timestamps are stored as RFC3339 UTC strings in sqlite TEXT columns.
const TimeFormat = time.RFC3339

func FormatTime(t time.Time) string { return t.UTC().Format(TimeFormat) }

// ParseTime returns the zero time for empty or malformed values.
func ParseTime(s string) time.Time {
	t, _ := time.Parse(TimeFormat, s)
	return t
}

type MembershipTier string

const (
	TierStandard  MembershipTier = "standard"
	TierBronze    MembershipTier = "bronze"
	TierSilver    MembershipTier = "silver"
	TierGold      MembershipTier = "gold"
	TierSuspended MembershipTier = "suspended"
)

type ShippingMethod string

const (
	ShipStandard  ShippingMethod = "standard"
	ShipExpress   ShippingMethod = "express"
	ShipOvernight ShippingMethod = "overnight"
)

type PaymentMethod string

const (
	PayCreditCard PaymentMethod = "credit_card"
	PayPayPal     PaymentMethod = "paypal"
)

type Product struct {
	ID               int64   `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	Price            float64 `db:"price" json:"price"`
	Quantity         int     `db:"quantity" json:"quantity"` // quantity available, never negative
	Category         string  `db:"category" json:"category"`
	Weight           float64 `db:"weight" json:"weight"`
	SupplierID       int64   `db:"supplier_id" json:"supplier_id"`
	DiscountEligible bool    `db:"discount_eligible" json:"discount_eligible"`
	CreatedAt        string  `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Email         string         `db:"email" json:"email"`
	Phone         string         `db:"phone" json:"phone"`
	Tier          MembershipTier `db:"tier" json:"tier"`
	LoyaltyPoints int            `db:"loyalty_points" json:"loyalty_points"`
	Address       string         `db:"address" json:"address"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
}

type Supplier struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Email       string  `db:"email" json:"email"`
	Reliability float64 `db:"reliability" json:"reliability"`
}

type Promotion struct {
	ID              int64   `db:"id" json:"id"`
	Code            string  `db:"code" json:"code"`
	DiscountPercent float64 `db:"discount_percent" json:"discount_percent"`
	MinPurchase     float64 `db:"min_purchase" json:"min_purchase"`
	ValidUntil      string  `db:"valid_until" json:"valid_until"`
	Category        string  `db:"category" json:"category"` // "all" or a product category
	UsedCount       int     `db:"used_count" json:"used_count"`
}

type InventoryLog struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Change    int    `db:"quantity_change" json:"quantity_change"`
	Reason    string `db:"reason" json:"reason"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

type Shipment struct {
	ID             int64          `db:"id" json:"id"`
	OrderID        int64          `db:"order_id" json:"order_id"`
	TrackingNumber string         `db:"tracking_number" json:"tracking_number"`
	Status         ShipmentStatus `db:"status" json:"status"`
	CreatedAt      string         `db:"created_at" json:"created_at"`
}

// PaymentInfo is what the caller submits alongside an order request.
type PaymentInfo struct {
	Method     PaymentMethod `json:"method"`
	Valid      bool          `json:"valid"`
	CardNumber string        `json:"card_number,omitempty"`
	Email      string        `json:"email,omitempty"`
	Amount     float64       `json:"amount"`
}
