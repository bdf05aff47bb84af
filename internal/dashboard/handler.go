package dashboard

import (
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Stats struct {
	TotalInbound   int64  `json:"totalInbound"`
	TotalOutbound  int64  `json:"totalOutbound"`
	TotalMaterials int64  `json:"totalMaterials"`
	TotalProducts  int64  `json:"totalProducts"`
	LowStockCount  int64  `json:"lowStockCount"`
	Period         string `json:"period"`
}

// dateRange resolves the stats period to a [start, now] window. Unknown
// periods fall back to today.
func dateRange(period string) (time.Time, time.Time, string) {
	now := time.Now()
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), now, period
	case "month":
		return now.AddDate(0, -1, 0), now, period
	case "year":
		return now.AddDate(-1, 0, 0), now, period
	default:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, "today"
	}
}

// GET /api/dashboard/stats?period=today|week|month|year
func StatsHandler(db *gorm.DB, store cache.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, period := dateRange(c.Query("period", "today"))
		key := cache.KeyDashboardStats(period)

		var cached Stats
		if cache.GetJSON(c.Context(), store, key, &cached) {
			return c.JSON(fiber.Map{
				"status": "success",
				"data":   cached,
				"cached": true,
			})
		}

		stats := Stats{Period: period}

		err := db.Model(&models.InventoryTransaction{}).
			Where("type = ? AND transaction_date BETWEEN ? AND ?", models.TransactionInbound, start, end).
			Count(&stats.TotalInbound).Error
		if err != nil {
			return err
		}
		err = db.Model(&models.InventoryTransaction{}).
			Where("type = ? AND transaction_date BETWEEN ? AND ?", models.TransactionOutbound, start, end).
			Count(&stats.TotalOutbound).Error
		if err != nil {
			return err
		}
		if err := db.Model(&models.Material{}).Count(&stats.TotalMaterials).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
			return err
		}

		lowCount, err := stock.LowStockCount(db)
		if err != nil {
			return err
		}
		stats.LowStockCount = lowCount

		cache.SetJSON(c.Context(), store, key, stats, cache.StatsTTL)

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   stats,
		})
	}
}

// GET /api/dashboard/recent?limit=
func RecentTransactionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var transactions []models.InventoryTransaction
		err := db.
			Preload("Material").
			Preload("Product").
			Preload("User").
			Order("transaction_date DESC").
			Limit(limit).
			Find(&transactions).Error
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   transactions,
		})
	}
}

// GET /api/dashboard/low-stock
func LowStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summaries, err := stock.LowStockSummaries(db)
		if err != nil {
			return err
		}

		materials := make([]models.StockSummary, 0)
		products := make([]models.StockSummary, 0)
		for _, s := range summaries {
			if s.MaterialID != nil {
				materials = append(materials, s)
			} else if s.ProductID != nil {
				products = append(products, s)
			}
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"materials": materials,
				"products":  products,
			},
		})
	}
}
