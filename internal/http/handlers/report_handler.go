package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type ReportHandler struct {
	Reports   *services.ReportingService
	Marketing *services.MarketingService
}

func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	start := domain.ParseTime(c.Query("start"))
	end := domain.ParseTime(c.Query("end"))
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return badRequest(c, "start and end must be RFC3339 with start <= end")
	}
	report, err := h.Reports.Sales(start, end)
	if err != nil {
		applog.Error(c, "report.sales", err, nil)
		return writeErr(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Notify(c *fiber.Ctx) error {
	var req struct {
		Segment string `json:"segment"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	segment, ok := validate.Segment(req.Segment)
	if !ok {
		return badRequest(c, "unknown segment")
	}
	if req.Message == "" {
		return badRequest(c, "message is required")
	}
	count, err := h.Marketing.NotifySegment(segment, req.Message)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "marketing.notify", map[string]any{"segment": segment, "count": count})
	return c.JSON(fiber.Map{"segment": segment, "notified": count})
}
