package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id,name,email,COALESCE(phone,'') AS phone,tier,loyalty_points,
  COALESCE(address,'') AS address,COALESCE(created_at,'') AS created_at`

func (r *CustomerRepo) Insert(c domain.Customer) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id,name,email,phone,tier,loyalty_points,address,created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Email, c.Phone, c.Tier, c.LoyaltyPoints, c.Address)
	return err
}

func (r *CustomerRepo) Get(id int64) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

func (r *CustomerRepo) All() ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `SELECT `+customerCols+` FROM customers ORDER BY id`)
	return out, err
}

// AdjustLoyaltyPoints applies a signed delta; the balance may never go
// negative, so deductions larger than the balance are rejected.
func (r *CustomerRepo) AdjustLoyaltyPoints(id int64, delta int) error {
	res, err := r.db.Exec(`
	  UPDATE customers SET loyalty_points = loyalty_points + ?
	  WHERE id = ? AND loyalty_points + ? >= 0
	`, delta, id, delta)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("loyalty adjustment %+d rejected for customer %d", delta, id)
	}
	return nil
}

func (r *CustomerRepo) SetTier(id int64, tier domain.MembershipTier) error {
	_, err := r.db.Exec(`UPDATE customers SET tier = ? WHERE id = ?`, tier, id)
	return err
}
