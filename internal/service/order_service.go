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

type CreateOrderRequest struct {
	CustomerID *string                  `json:"customer_id"`
	Items      []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type SetDeliveryRequest struct {
	TrackingNumber string               `json:"tracking_number"`
	DeliveryStatus model.DeliveryStatus `json:"delivery_status" validate:"required"`
}

// OrderService is the order lifecycle: creation with totals/deposit,
// the production state machine, the delivery axis and the payment tracker.
// Every legal-transition rule for customer orders is enforced here,
// not in handlers and not in any client.
type OrderService interface {
	CreateOrder(req *CreateOrderRequest, userID string) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, error)
	AdvanceProduction(id uuid.UUID, userID string) (*model.Order, error)
	RetreatProduction(id uuid.UUID, userID string) (*model.Order, error)
	SetDelivery(id uuid.UUID, req *SetDeliveryRequest, userID string) (*model.Order, error)
	RecordPaymentProof(id uuid.UUID, proof string, userID string) (*model.Order, error)
	ConfirmPayment(id uuid.UUID, newStatus model.PaymentStatus, userID string) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	ledger      LedgerService
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewOrderService(oRepo repository.OrderRepository, pRepo repository.ProductRepository, ledger LedgerService, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		ledger:      ledger,
		db:          db,
		wsHub:       hub,
	}
}

func (s *orderService) CreateOrder(req *CreateOrderRequest, userID string) (*model.Order, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Newf(apperr.KindValidation, "validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Resolve each line against the product catalog; name and price are
	// snapshotted onto the order so later price changes do not rewrite it
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", line.ProductID)
			}
			return nil, apperr.Storage(err)
		}
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}

	// 3. Build the order with its lifecycle defaults
	production := model.ProductionAwaiting
	order := &model.Order{
		CustomerID:       req.CustomerID,
		Items:            items,
		Status:           model.OrderPending,
		ProductionStatus: &production,
		DeliveryStatus:   model.DeliveryPending,
		PaymentStatus:    model.PaymentUnpaid,
		PaymentProof:     nil,
	}
	order.ComputeTotals()
	order.CreatedBy = userID
	order.UpdatedBy = userID

	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperr.Storage(err)
	}

	s.broadcastOrder(order, "order_created", userID)
	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Storage(err)
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return orders, nil
}

// AdvanceProduction moves the order one production stage forward. The
// packaging -> ready_for_delivery edge deducts every line item from the
// ledger exactly once, inside the same transaction as the status change.
func (s *orderService) AdvanceProduction(id uuid.UUID, userID string) (*model.Order, error) {
	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, id)
		if err != nil {
			return err
		}

		if order.ProductionStatus == nil {
			return apperr.IllegalTransition("order is completed, no further production action")
		}
		current := *order.ProductionStatus
		next, ok := current.Next()
		if !ok {
			return apperr.Newf(apperr.KindIllegalTransition, "cannot advance production from '%s'", current)
		}

		if next == model.ProductionReady {
			if order.PaymentStatus == model.PaymentUnpaid {
				return apperr.PaymentRequired("order must be at least deposit-paid before it is ready for delivery")
			}
			// Deduct stock at this edge, never on re-entry
			batch := orderBatch(order.Items)
			ref := MovementRef{
				RefType: model.RefOrder,
				RefID:   order.ID.String(),
				Note:    "production completed",
			}
			if _, err := s.ledger.ApplyBatchInTx(tx, batch, -1, ref, userID, true); err != nil {
				return err
			}
		}

		order.ProductionStatus = &next
		order.UpdatedBy = userID
		if err := s.orderRepo.SaveInTx(tx, order); err != nil {
			return apperr.Storage(err)
		}

		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastOrder(updated, "production_advanced", userID)
	return updated, nil
}

// RetreatProduction moves one stage back. Retreating out of packaging or
// ready_for_delivery is forbidden: packaged goods cannot be un-packaged
// and deducted stock is not silently re-credited.
func (s *orderService) RetreatProduction(id uuid.UUID, userID string) (*model.Order, error) {
	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, id)
		if err != nil {
			return err
		}

		if order.ProductionStatus == nil {
			return apperr.IllegalTransition("order is completed, no further production action")
		}
		current := *order.ProductionStatus
		prev, ok := current.Prev()
		if !ok {
			return apperr.Newf(apperr.KindIllegalTransition, "cannot retreat production from '%s'", current)
		}

		order.ProductionStatus = &prev
		order.UpdatedBy = userID
		if err := s.orderRepo.SaveInTx(tx, order); err != nil {
			return apperr.Storage(err)
		}

		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastOrder(updated, "production_retreated", userID)
	return updated, nil
}

func (s *orderService) SetDelivery(id uuid.UUID, req *SetDeliveryRequest, userID string) (*model.Order, error) {
	if !req.DeliveryStatus.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown delivery status '%s'", req.DeliveryStatus)
	}

	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, id)
		if err != nil {
			return err
		}

		if !order.DeliveryStatus.CanMoveTo(req.DeliveryStatus) {
			return apperr.Newf(apperr.KindIllegalTransition,
				"cannot move delivery from '%s' to '%s'", order.DeliveryStatus, req.DeliveryStatus)
		}
		if req.DeliveryStatus.InTransitOrLater() && order.PaymentStatus == model.PaymentUnpaid {
			return apperr.PaymentRequired("payment required before delivery can start")
		}

		order.DeliveryStatus = req.DeliveryStatus
		if req.TrackingNumber != "" {
			order.TrackingNumber = req.TrackingNumber
		}
		if req.DeliveryStatus == model.DeliveryDelivered {
			// Terminal: the coarse status closes and production is cleared
			order.Status = model.OrderCompleted
			order.ProductionStatus = nil
		}
		order.UpdatedBy = userID
		// Save writes all fields, so clearing ProductionStatus to nil
		// lands as NULL
		if err := s.orderRepo.SaveInTx(tx, order); err != nil {
			return apperr.Storage(err)
		}

		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastOrder(updated, "delivery_updated", userID)
	return updated, nil
}

func (s *orderService) RecordPaymentProof(id uuid.UUID, proof string, userID string) (*model.Order, error) {
	if proof == "" {
		return nil, apperr.Validation("payment proof reference is required")
	}

	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, id)
		if err != nil {
			return err
		}

		// Proof is stored as-is; status only moves on explicit confirmation
		order.PaymentProof = &proof
		order.UpdatedBy = userID
		if err := s.orderRepo.SaveInTx(tx, order); err != nil {
			return apperr.Storage(err)
		}

		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastOrder(updated, "payment_proof_recorded", userID)
	return updated, nil
}

func (s *orderService) ConfirmPayment(id uuid.UUID, newStatus model.PaymentStatus, userID string) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown payment status '%s'", newStatus)
	}

	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOrder(tx, id)
		if err != nil {
			return err
		}

		if !order.PaymentStatus.CanMoveTo(newStatus) {
			return apperr.Newf(apperr.KindIllegalTransition,
				"cannot move payment from '%s' to '%s'", order.PaymentStatus, newStatus)
		}

		order.PaymentStatus = newStatus
		order.UpdatedBy = userID
		if err := s.orderRepo.SaveInTx(tx, order); err != nil {
			return apperr.Storage(err)
		}

		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastOrder(updated, "payment_confirmed", userID)
	return updated, nil
}

func (s *orderService) lockOrder(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Storage(err)
	}
	return order, nil
}

func orderBatch(items []model.OrderItem) []BatchItem {
	batch := make([]BatchItem, len(items))
	for i, item := range items {
		batch[i] = BatchItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return batch
}

func (s *orderService) broadcastOrder(order *model.Order, action, userID string) {
	var production interface{}
	if order.ProductionStatus != nil {
		production = *order.ProductionStatus
	}
	s.wsHub.BroadcastEvent("order_update", action, map[string]interface{}{
		"order": map[string]interface{}{
			"id":                order.ID,
			"status":            order.Status,
			"production_status": production,
			"delivery_status":   order.DeliveryStatus,
			"payment_status":    order.PaymentStatus,
		},
		"user_id": userID,
		"message": fmt.Sprintf("order %s: %s", order.ID, action),
	})
}
