package inventory

import (
	"time"

	"warehouse-backend/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository is the storage port of the transaction recorder.
type TransactionRepository interface {
	// CountSince counts transactions of the given type recorded at or after
	// start; used for the daily sequence number.
	CountSince(txType models.TransactionType, start time.Time) (int64, error)
	Create(tx *models.InventoryTransaction) error
	// Find returns the transaction or nil when no row matches id.
	Find(id uint) (*models.InventoryTransaction, error)
	// FindWithRelations preloads item, user and weighing history.
	FindWithRelations(id uint) (*models.InventoryTransaction, error)
	// UpdateWeights persists the reweigh result on the transaction.
	UpdateWeights(id uint, currentWeight float64, shrinkage float64) error
	AppendWeighingRecord(rec *models.WeighingRecord) error
}

type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) CountSince(txType models.TransactionType, start time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.InventoryTransaction{}).
		Where("type = ? AND transaction_date >= ?", txType, start).
		Count(&count).Error
	return count, err
}

func (r *GormTransactionRepository) Create(tx *models.InventoryTransaction) error {
	return r.db.Create(tx).Error
}

func (r *GormTransactionRepository) Find(id uint) (*models.InventoryTransaction, error) {
	var tx models.InventoryTransaction
	err := r.db.First(&tx, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) FindWithRelations(id uint) (*models.InventoryTransaction, error) {
	var tx models.InventoryTransaction
	err := r.db.
		Preload("Material").
		Preload("Product").
		Preload("User").
		Preload("WeighingRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("weighed_at DESC")
		}).
		First(&tx, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) UpdateWeights(id uint, currentWeight float64, shrinkage float64) error {
	return r.db.Model(&models.InventoryTransaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_weight": currentWeight,
			"shrinkage":      shrinkage,
		}).Error
}

func (r *GormTransactionRepository) AppendWeighingRecord(rec *models.WeighingRecord) error {
	return r.db.Create(rec).Error
}
