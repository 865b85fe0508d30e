package handler

import (
	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/internal/service"
	"go-warehouse-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	filter := repository.OrderFilter{
		Status:     model.OrderStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
	}
	// Customers only ever see their own orders
	if getUserRole(c) == model.RoleCustomer {
		filter.CustomerID = getUserID(c)
	}

	orders, err := h.orders.ListOrders(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	order, err := h.orders.GetOrder(id)
	if err != nil {
		return respondError(c, err)
	}

	if getUserRole(c) == model.RoleCustomer {
		userID := getUserID(c)
		if order.CustomerID == nil || *order.CustomerID != userID {
			return c.Status(403).JSON(fiber.Map{"error": fiber.Map{
				"kind":    "forbidden",
				"message": "not your order",
			}})
		}
	}
	return c.JSON(order)
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	userID := getUserID(c)
	// Customers always order for themselves
	if getUserRole(c) == model.RoleCustomer || req.CustomerID == nil {
		req.CustomerID = &userID
	}

	order, err := h.orders.CreateOrder(&req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

// AdvanceProduction moves the order to the next production stage.
// PUT /orders/:id/advance
func (h *OrderHandler) AdvanceProduction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	order, err := h.orders.AdvanceProduction(id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Production advanced", "data": order})
}

// PUT /orders/:id/retreat
func (h *OrderHandler) RetreatProduction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	order, err := h.orders.RetreatProduction(id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Production retreated", "data": order})
}

// PUT /orders/:id/delivery
func (h *OrderHandler) SetDelivery(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	var req service.SetDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	order, err := h.orders.SetDelivery(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Delivery updated", "data": order})
}

// RecordPayment stores the uploaded proof reference without touching the
// payment status. PUT /orders/:id/payment
func (h *OrderHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	var req struct {
		PaymentProof string `json:"payment_proof"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	order, err := h.orders.RecordPaymentProof(id, req.PaymentProof, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment proof recorded", "data": order})
}

// PUT /orders/:id/confirm-payment
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid order ID"))
	}

	var req struct {
		PaymentStatus model.PaymentStatus `json:"payment_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	order, err := h.orders.ConfirmPayment(id, req.PaymentStatus, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment confirmed", "data": order})
}
