package repository

import (
	"go-warehouse-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalOrderRepository interface {
	Create(wo *model.WithdrawalOrder) error
	FindAll(status model.ProcurementStatus) ([]model.WithdrawalOrder, error)
	FindByID(id uuid.UUID) (*model.WithdrawalOrder, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WithdrawalOrder, error)
	SaveInTx(tx *gorm.DB, wo *model.WithdrawalOrder) error
}

type withdrawalOrderRepo struct {
	db *gorm.DB
}

func NewWithdrawalOrderRepo(db *gorm.DB) WithdrawalOrderRepository {
	return &withdrawalOrderRepo{db}
}

func (r *withdrawalOrderRepo) Create(wo *model.WithdrawalOrder) error {
	return r.db.Create(wo).Error
}

func (r *withdrawalOrderRepo) FindAll(status model.ProcurementStatus) ([]model.WithdrawalOrder, error) {
	var orders []model.WithdrawalOrder
	q := r.db.Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *withdrawalOrderRepo) FindByID(id uuid.UUID) (*model.WithdrawalOrder, error) {
	var wo model.WithdrawalOrder
	err := r.db.Preload("Items").First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *withdrawalOrderRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WithdrawalOrder, error) {
	var wo model.WithdrawalOrder
	err := forUpdate(tx).Preload("Items").First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *withdrawalOrderRepo) SaveInTx(tx *gorm.DB, wo *model.WithdrawalOrder) error {
	return tx.Omit(clause.Associations).Save(wo).Error
}
