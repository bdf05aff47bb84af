package stock

import (
	"warehouse-backend/internal/models"

	"gorm.io/gorm"
)

// Low stock is a computed predicate, never stored: an item is low when its
// min_stock threshold is positive and current_stock has fallen to or below
// it (inclusive boundary).

const lowStockCondition = `(materials.min_stock > 0 AND stock_summaries.current_stock <= materials.min_stock)
	OR (products.min_stock > 0 AND stock_summaries.current_stock <= products.min_stock)`

func lowStockQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.StockSummary{}).
		Joins("LEFT JOIN materials ON materials.id = stock_summaries.material_id").
		Joins("LEFT JOIN products ON products.id = stock_summaries.product_id").
		Where(lowStockCondition)
}

// LowStockCount counts summaries currently at or below their threshold.
func LowStockCount(db *gorm.DB) (int64, error) {
	var count int64
	err := lowStockQuery(db).Count(&count).Error
	return count, err
}

// LowStockSummaries returns the low summaries with their owning item
// preloaded, ordered by how far below the threshold they are.
func LowStockSummaries(db *gorm.DB) ([]models.StockSummary, error) {
	var ids []uint
	if err := lowStockQuery(db).Pluck("stock_summaries.id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.StockSummary{}, nil
	}

	var summaries []models.StockSummary
	err := db.Preload("Material").Preload("Product").
		Where("id IN ?", ids).
		Order("current_stock ASC").
		Find(&summaries).Error
	return summaries, err
}
