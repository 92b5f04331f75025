package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type CatalogHandler struct {
	Products  *repos.ProductRepo
	Suppliers *repos.SupplierRepo
	Inv       *services.InventoryService
}

type addProductReq struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	Category         string  `json:"category"`
	Weight           float64 `json:"weight"`
	SupplierID       int64   `json:"supplier_id"`
	DiscountEligible *bool   `json:"discount_eligible"`
}

func (h *CatalogHandler) AddProduct(c *fiber.Ctx) error {
	var req addProductReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid product name")
	}
	if req.ID <= 0 || req.Price < 0 || req.Quantity < 0 || req.Weight < 0 {
		return badRequest(c, "id must be positive; price, quantity and weight must be non-negative")
	}
	eligible := true
	if req.DiscountEligible != nil {
		eligible = *req.DiscountEligible
	}
	p := domain.Product{
		ID: req.ID, Name: name, Price: req.Price, Quantity: req.Quantity,
		Category: req.Category, Weight: req.Weight, SupplierID: req.SupplierID,
		DiscountEligible: eligible,
	}
	if err := h.Products.Insert(p); err != nil {
		applog.Error(c, "product.add", err, nil)
		return badRequest(c, "could not add product")
	}
	applog.Audit(c, "product.add", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *CatalogHandler) AddSupplier(c *fiber.Ctx) error {
	var s domain.Supplier
	if err := c.BodyParser(&s); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if s.ID <= 0 {
		return badRequest(c, "supplier id must be positive")
	}
	if _, ok := validate.Name(s.Name); !ok {
		return badRequest(c, "invalid supplier name")
	}
	if err := h.Suppliers.Insert(s); err != nil {
		applog.Error(c, "supplier.add", err, nil)
		return badRequest(c, "could not add supplier")
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *CatalogHandler) Restock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req struct {
		Quantity   int   `json:"quantity"`
		SupplierID int64 `json:"supplier_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	p, err := h.Inv.Restock(id, req.Quantity, req.SupplierID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(p)
}

func (h *CatalogHandler) UpdatePrice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil || req.Price < 0 {
		return badRequest(c, "price must be non-negative")
	}
	if _, err := h.Products.Get(id); err != nil {
		return writeErr(c, &domain.NotFoundError{Entity: "product", ID: id})
	}
	if err := h.Products.UpdatePrice(id, req.Price); err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "product.price", map[string]any{"product_id": id, "price": req.Price})
	return c.JSON(fiber.Map{"product_id": id, "price": req.Price})
}

func (h *CatalogHandler) LowStock(c *fiber.Ctx) error {
	threshold, err := strconv.Atoi(c.Query("threshold", "10"))
	if err != nil || threshold < 0 {
		return badRequest(c, "invalid threshold")
	}
	out, err := h.Inv.LowStock(threshold)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) InventoryLogs(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	logs, err := h.Inv.Logs(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(logs)
}
