package repos

import (
	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id,customer_id,status,total,shipping_cost,tracking_number,payment_method,
  COALESCE(created_at,'') AS created_at`

// NextID reserves the id the next inserted order will get. The caller holds
// the fulfillment lock, so two submissions cannot observe the same value.
func (r *OrderRepo) NextID() (int64, error) {
	var id int64
	err := r.db.Get(&id, `SELECT COALESCE(MAX(id),0)+1 FROM orders`)
	return id, err
}

// Insert writes the order header and its items in one transaction, so a
// failed item write never leaves a header without its lines.
func (r *OrderRepo) Insert(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id,customer_id,status,total,shipping_cost,tracking_number,payment_method,created_at)
	  VALUES(?,?,?,?,?,?,?,?)
	`, o.ID, o.CustomerID, o.Status, o.TotalPrice, o.ShippingCost, o.TrackingNumber, o.PaymentMethod, o.CreatedAt); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,qty,unit_price,discount_applied)
		  VALUES(?,?,?,?,?)
		`, o.ID, it.ProductID, it.Quantity, it.UnitPrice, it.DiscountApplied); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
	  SELECT order_id,product_id,qty,unit_price,discount_applied
	  FROM order_items WHERE order_id = ? ORDER BY product_id
	`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// All returns every order with its items loaded, oldest first.
func (r *OrderRepo) All() ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.Select(&orders, `SELECT `+orderCols+` FROM orders ORDER BY id`); err != nil {
		return nil, err
	}
	var items []domain.OrderItem
	if err := r.db.Select(&items, `
	  SELECT order_id,product_id,qty,unit_price,discount_applied
	  FROM order_items ORDER BY order_id, product_id
	`); err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]domain.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// ListByCustomer is the customer's order history (append-only: ids ascend in
// submission order).
func (r *OrderRepo) ListByCustomer(customerID int64) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.Select(&orders, `
	  SELECT `+orderCols+` FROM orders WHERE customer_id = ? ORDER BY id
	`, customerID); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.db.Select(&orders[i].Items, `
		  SELECT order_id,product_id,qty,unit_price,discount_applied
		  FROM order_items WHERE order_id = ? ORDER BY product_id
		`, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) UpdateStatus(id int64, status domain.OrderStatus) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *OrderRepo) UpdateTotal(id int64, total float64) error {
	_, err := r.db.Exec(`UPDATE orders SET total = ? WHERE id = ?`, total, id)
	return err
}

func (r *OrderRepo) SetTracking(id int64, tracking string) error {
	_, err := r.db.Exec(`UPDATE orders SET tracking_number = ? WHERE id = ?`, tracking, id)
	return err
}

// LifetimeValue sums the totals of a customer's non-cancelled orders.
func (r *OrderRepo) LifetimeValue(customerID int64) (float64, error) {
	var v float64
	err := r.db.Get(&v, `
	  SELECT COALESCE(SUM(total),0) FROM orders
	  WHERE customer_id = ? AND status != 'cancelled'
	`, customerID)
	return v, err
}

type CustomerValue struct {
	CustomerID int64   `db:"customer_id" json:"customer_id"`
	Value      float64 `db:"value" json:"value"`
}

// TopCustomers ranks every customer by lifetime value, ties broken by
// customer id ascending so the ranking is deterministic.
func (r *OrderRepo) TopCustomers(limit int) ([]CustomerValue, error) {
	var out []CustomerValue
	err := r.db.Select(&out, `
	  SELECT c.id AS customer_id,
	         COALESCE(SUM(CASE WHEN o.status != 'cancelled' THEN o.total END),0) AS value
	  FROM customers c
	  LEFT JOIN orders o ON o.customer_id = c.id
	  GROUP BY c.id
	  ORDER BY value DESC, c.id
	  LIMIT ?
	`, limit)
	return out, err
}

// LastOrderAt returns the created_at of the customer's most recent order,
// or "" when they have none.
func (r *OrderRepo) LastOrderAt(customerID int64) (string, error) {
	var ts string
	err := r.db.Get(&ts, `
	  SELECT COALESCE(MAX(created_at),'') FROM orders WHERE customer_id = ?
	`, customerID)
	return ts, err
}
