package repos

import (
	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Insert(p domain.Product) error {
	// Supplier id 0 means unattributed; store NULL so the foreign key holds.
	var supplier any
	if p.SupplierID != 0 {
		supplier = p.SupplierID
	}
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,price,quantity,category,weight,supplier_id,discount_eligible,created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Price, p.Quantity, p.Category, p.Weight, supplier, p.DiscountEligible)
	return err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id,name,price,quantity,category,weight,COALESCE(supplier_id,0) AS supplier_id,
	         discount_eligible,COALESCE(created_at,'') AS created_at
	  FROM products WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) All() (map[int64]domain.Product, error) {
	var rows []domain.Product
	err := r.db.Select(&rows, `
	  SELECT id,name,price,quantity,category,weight,COALESCE(supplier_id,0) AS supplier_id,
	         discount_eligible,COALESCE(created_at,'') AS created_at
	  FROM products
	`)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// Deduct atomically subtracts "by" units if enough stock exists.
// Returns false when there isn't sufficient stock.
func (r *ProductRepo) Deduct(id int64, by int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE products SET quantity = quantity - ?
	  WHERE id = ? AND quantity >= ?
	`, by, id, by)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Restore adds units back (cancellation, restock).
func (r *ProductRepo) Restore(id int64, by int) error {
	_, err := r.db.Exec(`UPDATE products SET quantity = quantity + ? WHERE id = ?`, by, id)
	return err
}

func (r *ProductRepo) UpdatePrice(id int64, price float64) error {
	_, err := r.db.Exec(`UPDATE products SET price = ? WHERE id = ?`, price, id)
	return err
}

// LowStock returns products at or below the threshold, lowest stock first.
func (r *ProductRepo) LowStock(threshold int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id,name,price,quantity,category,weight,COALESCE(supplier_id,0) AS supplier_id,
	         discount_eligible,COALESCE(created_at,'') AS created_at
	  FROM products
	  WHERE quantity <= ?
	  ORDER BY quantity, id
	`, threshold)
	return out, err
}
