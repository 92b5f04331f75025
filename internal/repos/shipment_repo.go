package repos

import (
	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type ShipmentRepo struct{ db *sqlx.DB }

func NewShipmentRepo(db *sqlx.DB) *ShipmentRepo { return &ShipmentRepo{db: db} }

func (r *ShipmentRepo) Insert(s domain.Shipment) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO shipments(order_id,tracking_number,status,created_at)
	  VALUES(?,?,?,?)
	`, s.OrderID, s.TrackingNumber, s.Status, s.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ShipmentRepo) GetByTracking(tracking string) (domain.Shipment, error) {
	var s domain.Shipment
	err := r.db.Get(&s, `
	  SELECT id,order_id,tracking_number,status,COALESCE(created_at,'') AS created_at
	  FROM shipments WHERE tracking_number = ?
	`, tracking)
	return s, err
}

func (r *ShipmentRepo) ListByOrder(orderID int64) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := r.db.Select(&out, `
	  SELECT id,order_id,tracking_number,status,COALESCE(created_at,'') AS created_at
	  FROM shipments WHERE order_id = ? ORDER BY id
	`, orderID)
	return out, err
}

func (r *ShipmentRepo) UpdateStatus(tracking string, status domain.ShipmentStatus) error {
	_, err := r.db.Exec(`UPDATE shipments SET status = ? WHERE tracking_number = ?`, status, tracking)
	return err
}
