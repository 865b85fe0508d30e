package service

import (
	"errors"
	"sort"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/internal/ws"
	"go-warehouse-api/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchItem is one line of a stock delta batch.
type BatchItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// SignedBatchItem carries a signed delta: positive restocks, negative
// issues. Used by the manual stock-adjustment endpoint.
type SignedBatchItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required"`
}

// MovementRef ties a batch to the document that caused it.
type MovementRef struct {
	RefType string
	RefID   string
	Note    string
}

// LedgerService owns every stock quantity change. All mutations run inside
// a DB transaction with row locks; a batch either applies fully or not at
// all. Nothing else in the codebase writes Product.Stock.
type LedgerService interface {
	ApplyDelta(productID uuid.UUID, delta int, ref MovementRef, userID string) (*model.Product, error)
	ApplyBatch(items []BatchItem, sign int, ref MovementRef, userID string, clamp bool) ([]model.Product, error)
	ApplyBatchInTx(tx *gorm.DB, items []BatchItem, sign int, ref MovementRef, userID string, clamp bool) ([]model.Product, error)
	ApplySignedBatch(items []SignedBatchItem, ref MovementRef, userID string) ([]model.Product, error)
}

type ledgerService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewLedgerService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *ledgerService) ApplyDelta(productID uuid.UUID, delta int, ref MovementRef, userID string) (*model.Product, error) {
	if delta == 0 {
		return nil, apperr.Validation("delta must not be zero")
	}
	sign := 1
	qty := delta
	if delta < 0 {
		sign = -1
		qty = -delta
	}

	products, err := s.ApplyBatch([]BatchItem{{ProductID: productID, Quantity: qty}}, sign, ref, userID, true)
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ledgerService) ApplyBatch(items []BatchItem, sign int, ref MovementRef, userID string, clamp bool) ([]model.Product, error) {
	var updated []model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		updated, txErr = s.ApplyBatchInTx(tx, items, sign, ref, userID, clamp)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	for i := range updated {
		s.broadcastStock(&updated[i], userID)
	}
	return updated, nil
}

// ApplyBatchInTx applies sign*quantity for every item inside tx. Rows are
// locked in product-id order so two concurrent batches cannot deadlock.
// Any unknown product aborts the whole batch. With clamp the result floor
// is 0; without it a would-be negative stock fails InsufficientStock.
func (s *ledgerService) ApplyBatchInTx(tx *gorm.DB, items []BatchItem, sign int, ref MovementRef, userID string, clamp bool) ([]model.Product, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("batch must contain at least one item")
	}
	if sign != 1 && sign != -1 {
		return nil, apperr.Validation("sign must be +1 or -1")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, apperr.Validation("item product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validation("item quantity must be positive")
		}
	}

	sorted := make([]BatchItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	updated := make([]model.Product, 0, len(sorted))
	for _, item := range sorted {
		product, err := s.productRepo.FindForUpdate(tx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", item.ProductID)
			}
			return nil, apperr.Storage(err)
		}

		newStock := product.Stock + sign*item.Quantity
		if newStock < 0 {
			if !clamp {
				return nil, apperr.Newf(apperr.KindInsufficientStock,
					"insufficient stock for product %s: have %d, need %d", product.Name, product.Stock, item.Quantity)
			}
			newStock = 0
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, userID); err != nil {
			return nil, apperr.Storage(err)
		}

		movementType := model.MovementIn
		if sign < 0 {
			movementType = model.MovementOut
		}
		movement := &model.StockMovement{
			ProductID: product.ID,
			Type:      movementType,
			Quantity:  item.Quantity,
			RefType:   ref.RefType,
			RefID:     ref.RefID,
			Note:      ref.Note,
		}
		if userID != "" {
			movement.CreatedBy = userID
			movement.UpdatedBy = userID
			movement.CreatedByUserID = &userID
		}
		if err := s.movementRepo.CreateInTx(tx, movement); err != nil {
			return nil, apperr.Storage(err)
		}

		product.Stock = newStock
		updated = append(updated, *product)
	}

	return updated, nil
}

// ApplySignedBatch applies a mixed-direction batch atomically: all deltas
// land or none do. Results clamp at zero like ApplyDelta.
func (s *ledgerService) ApplySignedBatch(items []SignedBatchItem, ref MovementRef, userID string) ([]model.Product, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("batch must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity == 0 {
			return nil, apperr.Validation("item quantity must not be zero")
		}
	}

	var updated []model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			sign := 1
			qty := item.Quantity
			if qty < 0 {
				sign = -1
				qty = -qty
			}
			products, err := s.ApplyBatchInTx(tx, []BatchItem{{ProductID: item.ProductID, Quantity: qty}}, sign, ref, userID, true)
			if err != nil {
				return err
			}
			updated = append(updated, products...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range updated {
		s.broadcastStock(&updated[i], userID)
	}
	return updated, nil
}

func (s *ledgerService) broadcastStock(product *model.Product, userID string) {
	s.wsHub.BroadcastEvent("stock_update", "stock_changed", map[string]interface{}{
		"product": map[string]interface{}{
			"id":    product.ID,
			"sku":   product.SKU,
			"name":  product.Name,
			"stock": product.Stock,
		},
		"user_id": userID,
	})
}
