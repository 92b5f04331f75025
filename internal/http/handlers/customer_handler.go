package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type CustomerHandler struct {
	Customers *repos.CustomerRepo
	Orders    *services.OrderService
	Reports   *services.ReportingService
}

type addCustomerReq struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Tier    string `json:"tier"`
	Address string `json:"address"`
}

func (h *CustomerHandler) Add(c *fiber.Ctx) error {
	var req addCustomerReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.ID <= 0 {
		return badRequest(c, "customer id must be positive")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid customer name")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "invalid email")
	}
	tier, ok := validate.Tier(req.Tier)
	if !ok {
		tier = string(domain.TierStandard)
	}
	cust := domain.Customer{
		ID: req.ID, Name: name, Email: email, Phone: req.Phone,
		Tier: domain.MembershipTier(tier), Address: req.Address,
	}
	if err := h.Customers.Insert(cust); err != nil {
		applog.Error(c, "customer.add", err, nil)
		return badRequest(c, "could not add customer")
	}
	applog.Audit(c, "customer.add", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

func (h *CustomerHandler) OrderHistory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	orders, err := h.Orders.CustomerOrders(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(orders)
}

func (h *CustomerHandler) LifetimeValue(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	v, err := h.Reports.LifetimeValue(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"customer_id": id, "lifetime_value": v})
}

func (h *CustomerHandler) Upgrade(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	upgraded, err := h.Reports.UpgradeMembership(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"customer_id": id, "upgraded": upgraded})
}
