package repos

import (
	"github.com/jmoiron/sqlx"

	"orderdesk/internal/domain"
)

type PromotionRepo struct{ db *sqlx.DB }

func NewPromotionRepo(db *sqlx.DB) *PromotionRepo { return &PromotionRepo{db: db} }

func (r *PromotionRepo) Insert(p domain.Promotion) error {
	_, err := r.db.Exec(`
	  INSERT INTO promotions(id,code,discount_percent,min_purchase,valid_until,category,used_count)
	  VALUES(?,?,?,?,?,?,0)
	`, p.ID, p.Code, p.DiscountPercent, p.MinPurchase, p.ValidUntil, p.Category)
	return err
}

func (r *PromotionRepo) GetByCode(code string) (domain.Promotion, error) {
	var p domain.Promotion
	err := r.db.Get(&p, `
	  SELECT id,code,discount_percent,min_purchase,valid_until,category,used_count
	  FROM promotions WHERE code = ?
	`, code)
	return p, err
}

func (r *PromotionRepo) IncrementUsage(code string) error {
	_, err := r.db.Exec(`UPDATE promotions SET used_count = used_count + 1 WHERE code = ?`, code)
	return err
}
