package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/internal/ws"
	"go-warehouse-api/pkg/apperr"
	"go-warehouse-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePurchaseOrderRequest struct {
	Supplier string                           `json:"supplier" validate:"required"`
	Notes    string                           `json:"notes"`
	Items    []CreatePurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreatePurchaseOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64   `json:"unit_price" validate:"gte=0"`
}

type CreateWithdrawalOrderRequest struct {
	Department string                             `json:"department" validate:"required"`
	Purpose    string                             `json:"purpose"`
	Items      []CreateWithdrawalOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateWithdrawalOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// ProcurementService runs the purchase-order (restock) and
// withdrawal-order (issue) workflows. Confirmation flips the document
// status and applies the ledger batch inside one transaction: either both
// happen or neither does.
type ProcurementService interface {
	CreatePurchaseOrder(req *CreatePurchaseOrderRequest, userID string) (*model.PurchaseOrder, error)
	GetPurchaseOrder(id uuid.UUID) (*model.PurchaseOrder, error)
	ListPurchaseOrders(status model.ProcurementStatus) ([]model.PurchaseOrder, error)
	ConfirmPurchaseOrder(id uuid.UUID, confirmedBy string) (*model.PurchaseOrder, error)
	CancelPurchaseOrder(id uuid.UUID, userID string) (*model.PurchaseOrder, error)

	CreateWithdrawalOrder(req *CreateWithdrawalOrderRequest, requestedBy string) (*model.WithdrawalOrder, error)
	GetWithdrawalOrder(id uuid.UUID) (*model.WithdrawalOrder, error)
	ListWithdrawalOrders(status model.ProcurementStatus) ([]model.WithdrawalOrder, error)
	ConfirmWithdrawalOrder(id uuid.UUID, confirmedBy string) (*model.WithdrawalOrder, error)
}

type procurementService struct {
	purchaseRepo   repository.PurchaseOrderRepository
	withdrawalRepo repository.WithdrawalOrderRepository
	productRepo    repository.ProductRepository
	ledger         LedgerService
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewProcurementService(
	purchaseRepo repository.PurchaseOrderRepository,
	withdrawalRepo repository.WithdrawalOrderRepository,
	productRepo repository.ProductRepository,
	ledger LedgerService,
	db *gorm.DB,
	hub *ws.Hub,
) ProcurementService {
	return &procurementService{
		purchaseRepo:   purchaseRepo,
		withdrawalRepo: withdrawalRepo,
		productRepo:    productRepo,
		ledger:         ledger,
		db:             db,
		wsHub:          hub,
	}
}

func (s *procurementService) CreatePurchaseOrder(req *CreatePurchaseOrderRequest, userID string) (*model.PurchaseOrder, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Newf(apperr.KindValidation, "validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Resolve products; the order snapshots their names
	items := make([]model.PurchaseOrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", line.ProductID)
			}
			return nil, apperr.Storage(err)
		}
		items = append(items, model.PurchaseOrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	po := &model.PurchaseOrder{
		Supplier: req.Supplier,
		Notes:    req.Notes,
		Items:    items,
		Status:   model.ProcurementPending,
	}
	po.ComputeTotals()
	po.CreatedBy = userID
	po.UpdatedBy = userID

	if err := s.purchaseRepo.Create(po); err != nil {
		return nil, apperr.Storage(err)
	}

	return po, nil
}

func (s *procurementService) GetPurchaseOrder(id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order")
		}
		return nil, apperr.Storage(err)
	}
	return po, nil
}

func (s *procurementService) ListPurchaseOrders(status model.ProcurementStatus) ([]model.PurchaseOrder, error) {
	orders, err := s.purchaseRepo.FindAll(status)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return orders, nil
}

// ConfirmPurchaseOrder credits every line item to the stock ledger and
// flips the order to confirmed, atomically. A second confirmation fails
// without double-crediting.
func (s *procurementService) ConfirmPurchaseOrder(id uuid.UUID, confirmedBy string) (*model.PurchaseOrder, error) {
	var confirmed *model.PurchaseOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		po, err := s.purchaseRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("purchase order")
			}
			return apperr.Storage(err)
		}

		if po.Status != model.ProcurementPending {
			return apperr.Newf(apperr.KindIllegalTransition, "purchase order is already %s", po.Status)
		}

		batch := make([]BatchItem, len(po.Items))
		for i, item := range po.Items {
			batch[i] = BatchItem{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		ref := MovementRef{
			RefType: model.RefPurchaseOrder,
			RefID:   po.ID.String(),
			Note:    fmt.Sprintf("restock from %s", po.Supplier),
		}
		if _, err := s.ledger.ApplyBatchInTx(tx, batch, +1, ref, confirmedBy, false); err != nil {
			return err
		}

		now := time.Now()
		po.Status = model.ProcurementConfirmed
		po.ConfirmedBy = confirmedBy
		po.ConfirmedAt = &now
		po.UpdatedBy = confirmedBy
		if err := s.purchaseRepo.SaveInTx(tx, po); err != nil {
			return apperr.Storage(err)
		}

		confirmed = po
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("stock_update", "purchase_order_confirmed", map[string]interface{}{
		"purchase_order_id": confirmed.ID,
		"supplier":          confirmed.Supplier,
		"user_id":           confirmedBy,
	})
	return confirmed, nil
}

// CancelPurchaseOrder is only legal from pending and touches no stock.
func (s *procurementService) CancelPurchaseOrder(id uuid.UUID, userID string) (*model.PurchaseOrder, error) {
	var cancelled *model.PurchaseOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		po, err := s.purchaseRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("purchase order")
			}
			return apperr.Storage(err)
		}

		if po.Status != model.ProcurementPending {
			return apperr.Newf(apperr.KindIllegalTransition, "cannot cancel a %s purchase order", po.Status)
		}

		po.Status = model.ProcurementCancelled
		po.UpdatedBy = userID
		if err := s.purchaseRepo.SaveInTx(tx, po); err != nil {
			return apperr.Storage(err)
		}

		cancelled = po
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *procurementService) CreateWithdrawalOrder(req *CreateWithdrawalOrderRequest, requestedBy string) (*model.WithdrawalOrder, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Newf(apperr.KindValidation, "validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check each line against the live stock snapshot. This is only a
	// courtesy check: stock may move before confirmation, which re-checks
	// under locks.
	items := make([]model.WithdrawalItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", line.ProductID)
			}
			return nil, apperr.Storage(err)
		}
		if line.Quantity > product.Stock {
			return nil, apperr.Newf(apperr.KindInsufficientStock,
				"insufficient stock for product %s: have %d, need %d", product.Name, product.Stock, line.Quantity)
		}
		items = append(items, model.WithdrawalItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
		})
	}

	wo := &model.WithdrawalOrder{
		OrderNumber: newWithdrawalNumber(),
		Department:  req.Department,
		Purpose:     req.Purpose,
		Items:       items,
		Status:      model.ProcurementPending,
		RequestedBy: requestedBy,
	}
	wo.CreatedBy = requestedBy
	wo.UpdatedBy = requestedBy

	if err := s.withdrawalRepo.Create(wo); err != nil {
		return nil, apperr.Storage(err)
	}

	return wo, nil
}

func (s *procurementService) GetWithdrawalOrder(id uuid.UUID) (*model.WithdrawalOrder, error) {
	wo, err := s.withdrawalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("withdrawal order")
		}
		return nil, apperr.Storage(err)
	}
	return wo, nil
}

func (s *procurementService) ListWithdrawalOrders(status model.ProcurementStatus) ([]model.WithdrawalOrder, error) {
	orders, err := s.withdrawalRepo.FindAll(status)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return orders, nil
}

// ConfirmWithdrawalOrder re-validates stock under row locks and debits the
// ledger atomically with the status flip. If any line would go negative
// the whole confirmation rolls back and the order stays pending.
func (s *procurementService) ConfirmWithdrawalOrder(id uuid.UUID, confirmedBy string) (*model.WithdrawalOrder, error) {
	var confirmed *model.WithdrawalOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		wo, err := s.withdrawalRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("withdrawal order")
			}
			return apperr.Storage(err)
		}

		if wo.Status != model.ProcurementPending {
			return apperr.Newf(apperr.KindIllegalTransition, "withdrawal order is already %s", wo.Status)
		}

		batch := make([]BatchItem, len(wo.Items))
		for i, item := range wo.Items {
			batch[i] = BatchItem{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		ref := MovementRef{
			RefType: model.RefWithdrawalOrder,
			RefID:   wo.ID.String(),
			Note:    fmt.Sprintf("withdrawal %s (%s)", wo.OrderNumber, wo.Department),
		}
		// clamp=false: going negative must fail, not silently floor
		if _, err := s.ledger.ApplyBatchInTx(tx, batch, -1, ref, confirmedBy, false); err != nil {
			return err
		}

		now := time.Now()
		wo.Status = model.ProcurementConfirmed
		wo.ConfirmedBy = confirmedBy
		wo.ConfirmedAt = &now
		wo.UpdatedBy = confirmedBy
		if err := s.withdrawalRepo.SaveInTx(tx, wo); err != nil {
			return apperr.Storage(err)
		}

		confirmed = wo
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("stock_update", "withdrawal_order_confirmed", map[string]interface{}{
		"withdrawal_order_id": confirmed.ID,
		"order_number":        confirmed.OrderNumber,
		"user_id":             confirmedBy,
	})
	return confirmed, nil
}

// newWithdrawalNumber builds a human-readable document number like
// WD-20260828-1A2B3C.
func newWithdrawalNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("WD-%s-%s", time.Now().Format("20060102"), suffix)
}
