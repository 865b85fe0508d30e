package handler

import (
	"fmt"
	"time"

	"go-warehouse-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// ExportInventory streams the stock position as an xlsx download.
// GET /reports/inventory/export
func (h *ReportHandler) ExportInventory(c *fiber.Ctx) error {
	file, err := h.service.BuildInventoryReport()
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := file.Write(c.Response().BodyWriter()); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write report"})
	}
	return nil
}
