package domain

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions is the closed set of legal status moves. Anything outside it
// (including unknown strings) is rejected with InvalidStateError.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	OrderID         int64   `db:"order_id" json:"-"`
	ProductID       int64   `db:"product_id" json:"product_id"`
	Quantity        int     `db:"qty" json:"quantity"`
	UnitPrice       float64 `db:"unit_price" json:"unit_price"` // price snapshot at order time
	DiscountApplied float64 `db:"discount_applied" json:"discount_applied,omitempty"`
}

type Order struct {
	ID             int64       `db:"id" json:"id"`
	CustomerID     int64       `db:"customer_id" json:"customer_id"`
	Status         OrderStatus `db:"status" json:"status"`
	TotalPrice     float64     `db:"total" json:"total"`
	ShippingCost   float64     `db:"shipping_cost" json:"shipping_cost"`
	TrackingNumber string      `db:"tracking_number" json:"tracking_number,omitempty"`
	PaymentMethod  string      `db:"payment_method" json:"payment_method"`
	CreatedAt      string      `db:"created_at" json:"created_at"`
	Items          []OrderItem `json:"items"`
}
