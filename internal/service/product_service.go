package service

import (
	"errors"
	"fmt"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/internal/ws"
	"go-warehouse-api/pkg/apperr"
	"go-warehouse-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewProductService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) ProductService {
	return &productService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *productService) CreateProduct(req *model.Product, userID string) error {
	// 1. Validate struct
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Newf(apperr.KindValidation, "validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check SKU duplication
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return apperr.Validation("SKU already exists")
	}

	// 3. Set audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	// 4. Save
	if err := s.productRepo.Create(req); err != nil {
		return apperr.Storage(err)
	}

	s.wsHub.BroadcastEvent("stock_update", "product_created", map[string]interface{}{
		"product": map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
		"user_id": userID,
	})

	return nil
}

// UpdateProduct rewrites descriptive fields only. Stock is owned by the
// ledger and deliberately not touched here.
func (s *productService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	var updatedProduct *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product")
			}
			return apperr.Storage(err)
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Category = req.Category
		existing.Price = req.Price
		existing.MinStock = req.MinStock
		existing.ExpiryDate = req.ExpiryDate
		existing.Supplier = req.Supplier
		existing.ImageURL = req.ImageURL
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := tx.Save(existing).Error; err != nil {
			return apperr.Storage(err)
		}

		updatedProduct = existing
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("stock_update", "product_updated", map[string]interface{}{
		"product": map[string]interface{}{
			"id":   updatedProduct.ID,
			"sku":  updatedProduct.SKU,
			"name": updatedProduct.Name,
		},
		"user_id": userID,
	})

	return updatedProduct, nil
}

func (s *productService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product")
		}
		return apperr.Storage(err)
	}

	// Refuse while open orders still reference the product
	var count int64
	err := s.db.Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.status = ? AND orders.deleted_at IS NULL", id, model.OrderPending).
		Count(&count).Error
	if err != nil {
		return apperr.Storage(err)
	}
	if count > 0 {
		return apperr.IllegalTransition(fmt.Sprintf("product is referenced by %d open order(s)", count))
	}

	if err := s.productRepo.Delete(id, userID); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Storage(err)
	}
	return product, nil
}
