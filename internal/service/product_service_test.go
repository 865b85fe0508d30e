package service

import (
	"testing"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/pkg/apperr"
)

func newProductService(env *testEnv) ProductService {
	return NewProductService(repository.NewProductRepo(env.db), env.db, nil)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	svc := newProductService(env)
	seedProduct(t, env.db, "SKU-1", 10, 10)

	err := svc.CreateProduct(&model.Product{SKU: "SKU-1", Name: "Duplicate"}, "tester")
	wantKind(t, err, apperr.KindValidation)
}

func TestUpdateProductNeverTouchesStock(t *testing.T) {
	env := newTestEnv(t)
	svc := newProductService(env)
	p := seedProduct(t, env.db, "SKU-1", 42, 10)

	updated, err := svc.UpdateProduct(p.ID, &model.Product{
		SKU:      "SKU-1",
		Name:     "Renamed",
		Price:    25,
		Stock:    999, // must be ignored
		MinStock: 5,
	}, "tester")
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Name != "Renamed" || updated.Price != 25 {
		t.Errorf("descriptive fields = (%s, %v), want (Renamed, 25)", updated.Name, updated.Price)
	}
	if got := currentStock(t, env.db, p.ID); got != 42 {
		t.Errorf("stock after descriptive update = %d, want unchanged 42", got)
	}
}

func TestDeleteProductBlockedByOpenOrders(t *testing.T) {
	env := newTestEnv(t)
	svc := newProductService(env)
	p := seedProduct(t, env.db, "SKU-1", 42, 10)
	createOrder(t, env, CreateOrderItemRequest{ProductID: p.ID, Quantity: 1})

	err := svc.DeleteProduct(p.ID, "tester")
	wantKind(t, err, apperr.KindIllegalTransition)

	// Still present
	if _, err := svc.GetProductByID(p.ID); err != nil {
		t.Errorf("product should survive blocked delete: %v", err)
	}
}

func TestDeleteProductWithoutReferences(t *testing.T) {
	env := newTestEnv(t)
	svc := newProductService(env)
	p := seedProduct(t, env.db, "SKU-1", 42, 10)

	if err := svc.DeleteProduct(p.ID, "tester"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	_, err := svc.GetProductByID(p.ID)
	wantKind(t, err, apperr.KindNotFound)
}
