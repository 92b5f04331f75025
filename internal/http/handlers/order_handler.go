package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type submitOrderReq struct {
	CustomerID     int64              `json:"customer_id"`
	Items          []submitOrderItem  `json:"items"`
	Payment        domain.PaymentInfo `json:"payment"`
	PromoCode      string             `json:"promo_code"`
	ShippingMethod string             `json:"shipping_method"`
}

type submitOrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var req submitOrderReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.CustomerID <= 0 {
		return badRequest(c, "customer_id must be positive")
	}
	method, ok := validate.ShippingMethod(req.ShippingMethod)
	if !ok {
		return badRequest(c, "unknown shipping method")
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID <= 0 || !validate.Qty(it.Quantity) || it.UnitPrice < 0 {
			return badRequest(c, "each item needs a positive product_id and quantity and a non-negative unit_price")
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice,
		})
	}

	promo := ""
	if req.PromoCode != "" {
		p, ok := validate.PromoCode(req.PromoCode)
		if !ok {
			return badRequest(c, "invalid promo code")
		}
		promo = p
	}

	order, err := h.Orders.Submit(req.CustomerID, items, req.Payment, promo, domain.ShippingMethod(method))
	if err != nil {
		applog.Security(c, "order.submit.fail", map[string]any{
			"customer_id": req.CustomerID, "error": err.Error(),
		})
		return writeErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	order, err := h.Orders.Get(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	order, err := h.Orders.UpdateStatus(id, domain.OrderStatus(req.Status))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	order, err := h.Orders.UpdateStatus(id, domain.StatusShipped)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)
	if req.Reason == "" {
		req.Reason = "customer request"
	}
	order, err := h.Orders.Cancel(id, req.Reason)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Discount(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req struct {
		Percent float64 `json:"percent"`
		Reason  string  `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if !validate.Percent(req.Percent) {
		return badRequest(c, "percent must be in (0,100]")
	}
	order, err := h.Orders.ApplyAdditionalDiscount(id, req.Percent, req.Reason)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(order)
}
