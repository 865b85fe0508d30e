package handler

import (
	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/service"
	"go-warehouse-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type ProcurementHandler struct {
	procurement service.ProcurementService
}

func NewProcurementHandler(procurement service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement}
}

func (h *ProcurementHandler) GetPurchaseOrders(c *fiber.Ctx) error {
	orders, err := h.procurement.ListPurchaseOrders(model.ProcurementStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *ProcurementHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid purchase order ID"))
	}

	po, err := h.procurement.GetPurchaseOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(po)
}

func (h *ProcurementHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	po, err := h.procurement.CreatePurchaseOrder(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": po})
}

// PUT /purchase-orders/:id/confirm
func (h *ProcurementHandler) ConfirmPurchaseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid purchase order ID"))
	}

	po, err := h.procurement.ConfirmPurchaseOrder(id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order confirmed", "data": po})
}

// DELETE /purchase-orders/:id cancels a pending purchase order.
func (h *ProcurementHandler) CancelPurchaseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid purchase order ID"))
	}

	po, err := h.procurement.CancelPurchaseOrder(id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order cancelled", "data": po})
}

func (h *ProcurementHandler) GetWithdrawalOrders(c *fiber.Ctx) error {
	orders, err := h.procurement.ListWithdrawalOrders(model.ProcurementStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *ProcurementHandler) GetWithdrawalOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid withdrawal order ID"))
	}

	wo, err := h.procurement.GetWithdrawalOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(wo)
}

func (h *ProcurementHandler) CreateWithdrawalOrder(c *fiber.Ctx) error {
	var req service.CreateWithdrawalOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	wo, err := h.procurement.CreateWithdrawalOrder(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Withdrawal order created", "data": wo})
}

// POST /withdrawal-orders/:id/confirm
func (h *ProcurementHandler) ConfirmWithdrawalOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid withdrawal order ID"))
	}

	wo, err := h.procurement.ConfirmWithdrawalOrder(id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Withdrawal order confirmed", "data": wo})
}
