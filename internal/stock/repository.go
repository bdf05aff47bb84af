package stock

import (
	"time"

	"warehouse-backend/internal/models"

	"gorm.io/gorm"
)

// SummaryRepository is the storage port for stock summaries. The increment
// operation must be atomic in the store (increment-by-delta, not
// read-modify-write), since concurrent scans of the same barcode are not
// serialized in the application.
type SummaryRepository interface {
	// Find returns the summary for barcode, or nil when none exists yet.
	Find(barcode string) (*models.StockSummary, error)
	Create(s *models.StockSummary) error
	// Increment atomically adds delta to current_stock and touches the
	// last-inbound or last-outbound timestamp per txType.
	Increment(barcode string, delta float64, txType models.TransactionType, at time.Time) error
}

// ItemLookup resolves barcodes to their owning Material or Product.
type ItemLookup interface {
	Material(barcode string) (*models.Material, error)
	Product(barcode string) (*models.Product, error)
}

type GormSummaryRepository struct {
	db *gorm.DB
}

func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

func (r *GormSummaryRepository) Find(barcode string) (*models.StockSummary, error) {
	var s models.StockSummary
	err := r.db.Where("barcode = ?", barcode).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSummaryRepository) Create(s *models.StockSummary) error {
	return r.db.Create(s).Error
}

func (r *GormSummaryRepository) Increment(barcode string, delta float64, txType models.TransactionType, at time.Time) error {
	updates := map[string]any{
		"current_stock": gorm.Expr("current_stock + ?", delta),
		"updated_at":    at,
	}
	if txType == models.TransactionInbound {
		updates["last_inbound"] = at
	} else {
		updates["last_outbound"] = at
	}
	return r.db.Model(&models.StockSummary{}).
		Where("barcode = ?", barcode).
		Updates(updates).Error
}

type GormItemLookup struct {
	db *gorm.DB
}

func NewGormItemLookup(db *gorm.DB) *GormItemLookup {
	return &GormItemLookup{db: db}
}

func (l *GormItemLookup) Material(barcode string) (*models.Material, error) {
	var m models.Material
	err := l.db.Where("barcode = ?", barcode).First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (l *GormItemLookup) Product(barcode string) (*models.Product, error) {
	var p models.Product
	err := l.db.Where("barcode = ?", barcode).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
