package repos

import (
	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type SupplierRepo struct{ db *sqlx.DB }

func NewSupplierRepo(db *sqlx.DB) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) Insert(s domain.Supplier) error {
	_, err := r.db.Exec(`
	  INSERT INTO suppliers(id,name,email,reliability) VALUES(?,?,?,?)
	`, s.ID, s.Name, s.Email, s.Reliability)
	return err
}

func (r *SupplierRepo) Get(id int64) (domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.Get(&s, `SELECT id,name,email,reliability FROM suppliers WHERE id = ?`, id)
	return s, err
}
