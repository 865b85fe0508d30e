package service

import (
	"math"
	"testing"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/pkg/apperr"

	"github.com/google/uuid"
)

func createOrder(t *testing.T, env *testEnv, lines ...CreateOrderItemRequest) *model.Order {
	t.Helper()

	order, err := env.orders.CreateOrder(&CreateOrderRequest{Items: lines}, "tester")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateOrderComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)

	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 2})

	if !approxEqual(order.Subtotal, 200) {
		t.Errorf("subtotal = %v, want 200", order.Subtotal)
	}
	if !approxEqual(order.VAT, 14) {
		t.Errorf("vat = %v, want 14", order.VAT)
	}
	if !approxEqual(order.TotalWithVAT, 214) {
		t.Errorf("total = %v, want 214", order.TotalWithVAT)
	}
	if !approxEqual(order.DepositAmount, 64.2) {
		t.Errorf("deposit = %v, want 64.2", order.DepositAmount)
	}

	if order.Status != model.OrderPending {
		t.Errorf("status = %s, want %s", order.Status, model.OrderPending)
	}
	if order.ProductionStatus == nil || *order.ProductionStatus != model.ProductionAwaiting {
		t.Errorf("production status = %v, want %s", order.ProductionStatus, model.ProductionAwaiting)
	}
	if order.DeliveryStatus != model.DeliveryPending {
		t.Errorf("delivery status = %s, want %s", order.DeliveryStatus, model.DeliveryPending)
	}
	if order.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("payment status = %s, want %s", order.PaymentStatus, model.PaymentUnpaid)
	}

	// Creation never touches stock
	if got := currentStock(t, env.db, p.ID); got != 50 {
		t.Errorf("stock after order creation = %d, want 50", got)
	}
}

func TestCreateOrderSnapshotsNameAndPrice(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)

	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	// A later price change must not rewrite the order
	env.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("price", 999)

	reloaded, err := env.orders.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("order items = %d, want 1", len(reloaded.Items))
	}
	if !approxEqual(reloaded.Items[0].UnitPrice, 100) {
		t.Errorf("snapshotted unit price = %v, want 100", reloaded.Items[0].UnitPrice)
	}
	if !approxEqual(reloaded.Subtotal, 100) {
		t.Errorf("subtotal = %v, want 100", reloaded.Subtotal)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.CreateOrder(&CreateOrderRequest{
		Items: []CreateOrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
	}, "tester")
	wantKind(t, err, apperr.KindNotFound)
}

func TestAdvanceDeductsStockOnceAtReadyEdge(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 10})

	// awaiting_production -> in_production -> packaging, no stock touched
	if _, err := env.orders.AdvanceProduction(order.ID, "tester"); err != nil {
		t.Fatalf("advance to in_production: %v", err)
	}
	if _, err := env.orders.AdvanceProduction(order.ID, "tester"); err != nil {
		t.Fatalf("advance to packaging: %v", err)
	}
	if got := currentStock(t, env.db, p.ID); got != 50 {
		t.Fatalf("stock before ready edge = %d, want 50", got)
	}

	// The ready edge is payment-gated
	if _, err := env.orders.ConfirmPayment(order.ID, model.PaymentDepositPaid, "tester"); err != nil {
		t.Fatalf("confirm deposit: %v", err)
	}
	updated, err := env.orders.AdvanceProduction(order.ID, "tester")
	if err != nil {
		t.Fatalf("advance to ready_for_delivery: %v", err)
	}
	if updated.ProductionStatus == nil || *updated.ProductionStatus != model.ProductionReady {
		t.Fatalf("production status = %v, want %s", updated.ProductionStatus, model.ProductionReady)
	}
	if got := currentStock(t, env.db, p.ID); got != 40 {
		t.Errorf("stock after ready edge = %d, want 40", got)
	}

	// A further advance fails and must not deduct again
	_, err = env.orders.AdvanceProduction(order.ID, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)
	if got := currentStock(t, env.db, p.ID); got != 40 {
		t.Errorf("stock after failed re-advance = %d, want still 40", got)
	}

	movements, err := env.movements.FindByRef(model.RefOrder, order.ID.String())
	if err != nil {
		t.Fatalf("FindByRef: %v", err)
	}
	if len(movements) != 1 {
		t.Errorf("order movement rows = %d, want exactly 1", len(movements))
	}
}

func TestAdvanceToReadyRequiresPayment(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 10})

	env.orders.AdvanceProduction(order.ID, "tester") // in_production
	env.orders.AdvanceProduction(order.ID, "tester") // packaging

	_, err := env.orders.AdvanceProduction(order.ID, "tester")
	wantKind(t, err, apperr.KindPaymentRequired)

	// Blocked advance must leave both status and stock alone
	reloaded, _ := env.orders.GetOrder(order.ID)
	if reloaded.ProductionStatus == nil || *reloaded.ProductionStatus != model.ProductionPackaging {
		t.Errorf("production status = %v, want still %s", reloaded.ProductionStatus, model.ProductionPackaging)
	}
	if got := currentStock(t, env.db, p.ID); got != 50 {
		t.Errorf("stock after blocked advance = %d, want 50", got)
	}
}

func TestRetreatFromInProduction(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	env.orders.AdvanceProduction(order.ID, "tester") // in_production

	updated, err := env.orders.RetreatProduction(order.ID, "tester")
	if err != nil {
		t.Fatalf("RetreatProduction: %v", err)
	}
	if updated.ProductionStatus == nil || *updated.ProductionStatus != model.ProductionAwaiting {
		t.Errorf("production status = %v, want %s", updated.ProductionStatus, model.ProductionAwaiting)
	}
}

func TestRetreatFromPackagingForbidden(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	env.orders.AdvanceProduction(order.ID, "tester") // in_production
	env.orders.AdvanceProduction(order.ID, "tester") // packaging

	_, err := env.orders.RetreatProduction(order.ID, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)
}

func TestDeliveryRequiresPayment(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	_, err := env.orders.SetDelivery(order.ID, &SetDeliveryRequest{DeliveryStatus: model.DeliveryShipping}, "tester")
	wantKind(t, err, apperr.KindPaymentRequired)
}

func TestDeliveredCompletesOrder(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	env.orders.ConfirmPayment(order.ID, model.PaymentDepositPaid, "tester")

	if _, err := env.orders.SetDelivery(order.ID, &SetDeliveryRequest{
		DeliveryStatus: model.DeliveryShipping,
		TrackingNumber: "TRK-123",
	}, "tester"); err != nil {
		t.Fatalf("set shipping: %v", err)
	}

	updated, err := env.orders.SetDelivery(order.ID, &SetDeliveryRequest{DeliveryStatus: model.DeliveryDelivered}, "tester")
	if err != nil {
		t.Fatalf("set delivered: %v", err)
	}
	if updated.Status != model.OrderCompleted {
		t.Errorf("status = %s, want %s", updated.Status, model.OrderCompleted)
	}
	if updated.ProductionStatus != nil {
		t.Errorf("production status = %v, want nil after completion", *updated.ProductionStatus)
	}
	if updated.TrackingNumber != "TRK-123" {
		t.Errorf("tracking number = %q, want TRK-123", updated.TrackingNumber)
	}

	// Delivered is terminal
	_, err = env.orders.SetDelivery(order.ID, &SetDeliveryRequest{DeliveryStatus: model.DeliveryShipping}, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)

	// And the cleared production status survives a reload
	reloaded, _ := env.orders.GetOrder(order.ID)
	if reloaded.ProductionStatus != nil {
		t.Errorf("persisted production status = %v, want nil", *reloaded.ProductionStatus)
	}

	// No production action either
	_, err = env.orders.AdvanceProduction(order.ID, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)
}

func TestConfirmPaymentForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	// Cannot skip the deposit stage
	_, err := env.orders.ConfirmPayment(order.ID, model.PaymentPaidInFull, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)

	if _, err := env.orders.ConfirmPayment(order.ID, model.PaymentDepositPaid, "tester"); err != nil {
		t.Fatalf("confirm deposit: %v", err)
	}
	updated, err := env.orders.ConfirmPayment(order.ID, model.PaymentPaidInFull, "tester")
	if err != nil {
		t.Fatalf("confirm full payment: %v", err)
	}
	if updated.PaymentStatus != model.PaymentPaidInFull {
		t.Errorf("payment status = %s, want %s", updated.PaymentStatus, model.PaymentPaidInFull)
	}

	// Never backwards
	_, err = env.orders.ConfirmPayment(order.ID, model.PaymentDepositPaid, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)
}

func TestRecordPaymentProofKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 50, 100)
	order := createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	updated, err := env.orders.RecordPaymentProof(order.ID, "receipt-042.jpg", "tester")
	if err != nil {
		t.Fatalf("RecordPaymentProof: %v", err)
	}
	if updated.PaymentProof == nil || *updated.PaymentProof != "receipt-042.jpg" {
		t.Errorf("payment proof = %v, want receipt-042.jpg", updated.PaymentProof)
	}
	// Proof upload alone never moves the payment status
	if updated.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("payment status = %s, want still %s", updated.PaymentStatus, model.PaymentUnpaid)
	}

	_, err = env.orders.RecordPaymentProof(order.ID, "", "tester")
	wantKind(t, err, apperr.KindValidation)
}
