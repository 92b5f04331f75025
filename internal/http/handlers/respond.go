package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
)

// writeErr maps the domain error taxonomy onto HTTP statuses with a uniform
// JSON envelope.
func writeErr(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var nf *domain.NotFoundError
	var is *domain.InvalidStateError
	var stock *domain.InsufficientStockError
	var pr *domain.PricingError
	switch {
	case errors.As(err, &nf):
		status = fiber.StatusNotFound
	case errors.As(err, &is):
		status = fiber.StatusConflict
	case errors.As(err, &stock):
		status = fiber.StatusConflict
	case errors.As(err, &pr):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentInvalid), errors.Is(err, domain.ErrPaymentInsufficient):
		status = fiber.StatusPaymentRequired
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
