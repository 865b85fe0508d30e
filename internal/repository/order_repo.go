package repository

import (
	"go-warehouse-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows FindAll. Zero values mean "no filter".
type OrderFilter struct {
	Status     model.OrderStatus
	CustomerID string
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll(filter OrderFilter) ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	Save(order *model.Order) error
	SaveInTx(tx *gorm.DB, order *model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) FindAll(filter OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.Preload("Items").Preload("Customer").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUpdate loads an order with its items inside tx under a row lock.
func (r *orderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := forUpdate(tx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save persists the order's own fields. Items are immutable after
// creation, so associations are omitted.
func (r *orderRepo) Save(order *model.Order) error {
	return r.db.Omit(clause.Associations).Save(order).Error
}

func (r *orderRepo) SaveInTx(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Save(order).Error
}
