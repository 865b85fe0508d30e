package handler

import (
	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/service"
	"go-warehouse-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	products service.ProductService
	ledger   service.LedgerService
}

func NewProductHandler(products service.ProductService, ledger service.LedgerService) *ProductHandler {
	return &ProductHandler{products: products, ledger: ledger}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.products.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid product ID"))
	}

	product, err := h.products.GetProductByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if err := h.products.CreateProduct(&product, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid product ID"))
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	updated, err := h.products.UpdateProduct(id, &product, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid product ID"))
	}

	if err := h.products.DeleteProduct(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// UpdateStockBatch applies a signed delta batch in one atomic step.
// PUT /products/update-stock  body: { items: [{product_id, quantity}] }
func (h *ProductHandler) UpdateStockBatch(c *fiber.Ctx) error {
	var req struct {
		Items []service.SignedBatchItem `json:"items"`
		Note  string                    `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	ref := service.MovementRef{
		RefType: model.RefManual,
		RefID:   getUserID(c),
		Note:    req.Note,
	}
	updated, err := h.ledger.ApplySignedBatch(req.Items, ref, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock updated", "data": updated})
}
