package service

import (
	"strings"
	"testing"
	"time"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/pkg/apperr"
)

func createPurchaseOrder(t *testing.T, env *testEnv, lines ...CreatePurchaseOrderItemRequest) *model.PurchaseOrder {
	t.Helper()

	po, err := env.procurement.CreatePurchaseOrder(&CreatePurchaseOrderRequest{
		Supplier: "Acme Supplies",
		Items:    lines,
	}, "tester")
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	return po
}

func TestConfirmPurchaseOrderCreditsStockOnce(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 100, 10)
	po := createPurchaseOrder(t, env, CreatePurchaseOrderItemRequest{ProductID: p.ID, Quantity: 50, UnitPrice: 8})

	if !approxEqual(po.TotalAmount, 400) {
		t.Errorf("total amount = %v, want 400", po.TotalAmount)
	}
	if got := currentStock(t, env.db, p.ID); got != 100 {
		t.Fatalf("stock after creation = %d, want 100", got)
	}

	confirmed, err := env.procurement.ConfirmPurchaseOrder(po.ID, "manager")
	if err != nil {
		t.Fatalf("ConfirmPurchaseOrder: %v", err)
	}
	if confirmed.Status != model.ProcurementConfirmed {
		t.Errorf("status = %s, want %s", confirmed.Status, model.ProcurementConfirmed)
	}
	if confirmed.ConfirmedBy != "manager" || confirmed.ConfirmedAt == nil {
		t.Errorf("confirmation audit = (%q, %v), want manager and a timestamp", confirmed.ConfirmedBy, confirmed.ConfirmedAt)
	}
	if got := currentStock(t, env.db, p.ID); got != 150 {
		t.Errorf("stock after confirmation = %d, want 150", got)
	}

	// A second confirmation fails and must not credit again
	_, err = env.procurement.ConfirmPurchaseOrder(po.ID, "manager")
	wantKind(t, err, apperr.KindIllegalTransition)
	if got := currentStock(t, env.db, p.ID); got != 150 {
		t.Errorf("stock after double confirm = %d, want still 150", got)
	}

	movements, err := env.movements.FindByRef(model.RefPurchaseOrder, po.ID.String())
	if err != nil {
		t.Fatalf("FindByRef: %v", err)
	}
	if len(movements) != 1 {
		t.Errorf("purchase movement rows = %d, want exactly 1", len(movements))
	}
}

func TestCancelPurchaseOrderOnlyFromPending(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 10, 10)

	po := createPurchaseOrder(t, env, CreatePurchaseOrderItemRequest{ProductID: p.ID, Quantity: 5, UnitPrice: 8})
	cancelled, err := env.procurement.CancelPurchaseOrder(po.ID, "tester")
	if err != nil {
		t.Fatalf("CancelPurchaseOrder: %v", err)
	}
	if cancelled.Status != model.ProcurementCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, model.ProcurementCancelled)
	}
	if got := currentStock(t, env.db, p.ID); got != 10 {
		t.Errorf("stock after cancel = %d, want unchanged 10", got)
	}

	// A confirmed order cannot be cancelled
	po2 := createPurchaseOrder(t, env, CreatePurchaseOrderItemRequest{ProductID: p.ID, Quantity: 5, UnitPrice: 8})
	if _, err := env.procurement.ConfirmPurchaseOrder(po2.ID, "tester"); err != nil {
		t.Fatalf("ConfirmPurchaseOrder: %v", err)
	}
	_, err = env.procurement.CancelPurchaseOrder(po2.ID, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)
}

func TestWithdrawalRejectedWhenSnapshotInsufficient(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 100, 10)
	po := createPurchaseOrder(t, env, CreatePurchaseOrderItemRequest{ProductID: p.ID, Quantity: 50, UnitPrice: 8})
	if _, err := env.procurement.ConfirmPurchaseOrder(po.ID, "tester"); err != nil {
		t.Fatalf("ConfirmPurchaseOrder: %v", err)
	}
	if got := currentStock(t, env.db, p.ID); got != 150 {
		t.Fatalf("stock after restock = %d, want 150", got)
	}

	// 200 > 150: the request is rejected outright
	_, err := env.procurement.CreateWithdrawalOrder(&CreateWithdrawalOrderRequest{
		Department: "assembly",
		Items:      []CreateWithdrawalOrderItemRequest{{ProductID: p.ID, Quantity: 200}},
	}, "tester")
	wantKind(t, err, apperr.KindInsufficientStock)

	if got := currentStock(t, env.db, p.ID); got != 150 {
		t.Errorf("stock after rejected withdrawal = %d, want 150", got)
	}
}

func TestConfirmWithdrawalOrderDebitsStock(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 100, 10)

	wo, err := env.procurement.CreateWithdrawalOrder(&CreateWithdrawalOrderRequest{
		Department: "assembly",
		Purpose:    "line restock",
		Items:      []CreateWithdrawalOrderItemRequest{{ProductID: p.ID, Quantity: 30}},
	}, "requester")
	if err != nil {
		t.Fatalf("CreateWithdrawalOrder: %v", err)
	}
	if wo.RequestedBy != "requester" {
		t.Errorf("requested by = %q, want requester", wo.RequestedBy)
	}

	confirmed, err := env.procurement.ConfirmWithdrawalOrder(wo.ID, "manager")
	if err != nil {
		t.Fatalf("ConfirmWithdrawalOrder: %v", err)
	}
	if confirmed.Status != model.ProcurementConfirmed {
		t.Errorf("status = %s, want %s", confirmed.Status, model.ProcurementConfirmed)
	}
	if got := currentStock(t, env.db, p.ID); got != 70 {
		t.Errorf("stock after withdrawal = %d, want 70", got)
	}

	_, err = env.procurement.ConfirmWithdrawalOrder(wo.ID, "manager")
	wantKind(t, err, apperr.KindIllegalTransition)
	if got := currentStock(t, env.db, p.ID); got != 70 {
		t.Errorf("stock after double confirm = %d, want still 70", got)
	}
}

func TestConfirmWithdrawalFailsWhenStockMovedSinceCreation(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 40, 10)

	wo, err := env.procurement.CreateWithdrawalOrder(&CreateWithdrawalOrderRequest{
		Department: "assembly",
		Items:      []CreateWithdrawalOrderItemRequest{{ProductID: p.ID, Quantity: 30}},
	}, "requester")
	if err != nil {
		t.Fatalf("CreateWithdrawalOrder: %v", err)
	}

	// Stock moves between request and confirmation
	if _, err := env.ledger.ApplyDelta(p.ID, -25, MovementRef{RefType: model.RefManual}, "tester"); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}

	_, err = env.procurement.ConfirmWithdrawalOrder(wo.ID, "manager")
	wantKind(t, err, apperr.KindInsufficientStock)

	// The order stays pending and nothing was debited by the confirmation
	reloaded, err := env.procurement.GetWithdrawalOrder(wo.ID)
	if err != nil {
		t.Fatalf("GetWithdrawalOrder: %v", err)
	}
	if reloaded.Status != model.ProcurementPending {
		t.Errorf("status after failed confirm = %s, want %s", reloaded.Status, model.ProcurementPending)
	}
	if reloaded.ConfirmedAt != nil {
		t.Errorf("confirmed_at = %v, want nil", reloaded.ConfirmedAt)
	}
	if got := currentStock(t, env.db, p.ID); got != 15 {
		t.Errorf("stock = %d, want 15 (only the manual delta)", got)
	}
}

func TestWithdrawalNumberFormat(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 40, 10)

	wo, err := env.procurement.CreateWithdrawalOrder(&CreateWithdrawalOrderRequest{
		Department: "assembly",
		Items:      []CreateWithdrawalOrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	}, "requester")
	if err != nil {
		t.Fatalf("CreateWithdrawalOrder: %v", err)
	}

	wantPrefix := "WD-" + time.Now().Format("20060102") + "-"
	if !strings.HasPrefix(wo.OrderNumber, wantPrefix) {
		t.Errorf("order number = %q, want prefix %q", wo.OrderNumber, wantPrefix)
	}
	if len(wo.OrderNumber) != len(wantPrefix)+6 {
		t.Errorf("order number = %q, want a 6-char suffix", wo.OrderNumber)
	}
}

func TestCreateWithdrawalValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.procurement.CreateWithdrawalOrder(&CreateWithdrawalOrderRequest{Department: ""}, "tester")
	wantKind(t, err, apperr.KindValidation)
}
