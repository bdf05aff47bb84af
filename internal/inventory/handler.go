package inventory

import (
	"math"
	"time"

	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// POST /api/inventory/scan
func ScanHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ScanInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		userID := auth.UserIDFromCtx(c)

		tx, err := svc.Scan(body, userID)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "success",
			"data":   tx,
		})
	}
}

type ReweighRequest struct {
	CurrentWeight *float64 `json:"currentWeight"`
	Notes         string   `json:"notes"`
}

// PUT /api/inventory/reweigh/:id
func ReweighHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
		}

		var body ReweighRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.CurrentWeight == nil {
			return fiber.NewError(fiber.StatusBadRequest, "currentWeight is required")
		}

		tx, err := svc.Reweigh(uint(id), *body.CurrentWeight, body.Notes, auth.EmailFromCtx(c))
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   tx,
		})
	}
}

// transactionFilters applies the shared type/itemType/barcode/date filters.
func transactionFilters(c *fiber.Ctx, q *gorm.DB) (*gorm.DB, error) {
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if it := c.Query("itemType"); it != "" {
		q = q.Where("item_type = ?", it)
	}
	if b := c.Query("barcode"); b != "" {
		q = q.Where("barcode = ?", b)
	}
	if sd := c.Query("startDate"); sd != "" {
		start, err := time.Parse("2006-01-02", sd)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		q = q.Where("transaction_date >= ?", start)
	}
	if ed := c.Query("endDate"); ed != "" {
		end, err := time.Parse("2006-01-02", ed)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		// inclusive end of day
		q = q.Where("transaction_date <= ?", end.Add(24*time.Hour-time.Nanosecond))
	}
	return q, nil
}

// GET /api/inventory/transactions
func ListTransactionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 200 {
			limit = 20
		}

		q, err := transactionFilters(c, db.Model(&models.InventoryTransaction{}))
		if err != nil {
			return err
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var transactions []models.InventoryTransaction
		err = q.
			Preload("Material").
			Preload("Product").
			Preload("User").
			Order("transaction_date DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&transactions).Error
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   transactions,
			"pagination": fiber.Map{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

// GET /api/inventory/transactions/:id
func GetTransactionHandler(repo TransactionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
		}

		tx, err := repo.FindWithRelations(uint(id))
		if err != nil {
			return err
		}
		if tx == nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   tx,
		})
	}
}

// GET /api/inventory/summary
func StockSummaryHandler(db *gorm.DB, store cache.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cached []models.StockSummary
		if cache.GetJSON(c.Context(), store, cache.KeyStockSummary, &cached) {
			return c.JSON(fiber.Map{
				"status": "success",
				"data":   cached,
				"cached": true,
			})
		}

		var summaries []models.StockSummary
		err := db.
			Preload("Material").
			Preload("Product").
			Order("current_stock ASC").
			Find(&summaries).Error
		if err != nil {
			return err
		}

		cache.SetJSON(c.Context(), store, cache.KeyStockSummary, summaries, cache.SummaryTTL)

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   summaries,
		})
	}
}
