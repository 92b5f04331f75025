package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type InventoryLogRepo struct{ db *sqlx.DB }

func NewInventoryLogRepo(db *sqlx.DB) *InventoryLogRepo { return &InventoryLogRepo{db: db} }

func (r *InventoryLogRepo) Append(productID int64, change int, reason string) error {
	_, err := r.db.Exec(`
	  INSERT INTO inventory_logs(product_id,quantity_change,reason,created_at)
	  VALUES(?,?,?,?)
	`, productID, change, reason, domain.FormatTime(time.Now()))
	return err
}

func (r *InventoryLogRepo) ListByProduct(productID int64) ([]domain.InventoryLog, error) {
	var out []domain.InventoryLog
	err := r.db.Select(&out, `
	  SELECT id,product_id,quantity_change,reason,COALESCE(created_at,'') AS created_at
	  FROM inventory_logs WHERE product_id = ? ORDER BY id
	`, productID)
	return out, err
}
