package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
	"orderdesk/internal/validate"
)

type PromotionHandler struct {
	Promos *repos.PromotionRepo
}

type addPromotionReq struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	MinPurchase     float64 `json:"min_purchase"`
	ValidUntil      string  `json:"valid_until"` // RFC3339
	Category        string  `json:"category"`
}

func (h *PromotionHandler) Add(c *fiber.Ctx) error {
	var req addPromotionReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	code, ok := validate.PromoCode(req.Code)
	if !ok {
		return badRequest(c, "invalid promotion code")
	}
	if req.ID <= 0 || req.DiscountPercent < 0 || req.DiscountPercent > 100 || req.MinPurchase < 0 {
		return badRequest(c, "invalid promotion fields")
	}
	if domain.ParseTime(req.ValidUntil).IsZero() {
		return badRequest(c, "valid_until must be RFC3339")
	}
	category := req.Category
	if category == "" {
		category = "all"
	}
	p := domain.Promotion{
		ID: req.ID, Code: code, DiscountPercent: req.DiscountPercent,
		MinPurchase: req.MinPurchase, ValidUntil: req.ValidUntil, Category: category,
	}
	if err := h.Promos.Insert(p); err != nil {
		applog.Error(c, "promotion.add", err, nil)
		return badRequest(c, "could not add promotion")
	}
	applog.Audit(c, "promotion.add", map[string]any{"code": p.Code})
	return c.Status(fiber.StatusCreated).JSON(p)
}
