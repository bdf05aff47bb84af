package report

import (
	"fmt"
	"time"

	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FetchTransactions loads the report data set: transactions filtered by
// optional startDate/endDate/type, newest first, items and user preloaded.
// limit <= 0 means no cap.
func FetchTransactions(db *gorm.DB, startDate, endDate, txType string, limit int) ([]models.InventoryTransaction, error) {
	q := db.Model(&models.InventoryTransaction{})

	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		q = q.Where("transaction_date >= ?", start)
	}
	if endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		q = q.Where("transaction_date <= ?", end.Add(24*time.Hour-time.Nanosecond))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var transactions []models.InventoryTransaction
	err := q.
		Preload("Material").
		Preload("Product").
		Preload("User").
		Order("transaction_date DESC").
		Find(&transactions).Error
	return transactions, err
}

// GET /api/reports/export/excel
func ExportExcelHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		transactions, err := FetchTransactions(db, c.Query("startDate"), c.Query("endDate"), c.Query("type"), 0)
		if err != nil {
			return err
		}

		f, err := BuildExcel(transactions)
		if err != nil {
			return err
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=inventory_report_%d.xlsx", time.Now().Unix()))
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/export/pdf — capped at 100 rows.
func ExportPDFHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startDate := c.Query("startDate")
		endDate := c.Query("endDate")

		transactions, err := FetchTransactions(db, startDate, endDate, "", 100)
		if err != nil {
			return err
		}

		buf, err := BuildPDF(transactions, startDate, endDate)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=inventory_report_%d.pdf", time.Now().Unix()))
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/daily?date=YYYY-MM-DD
func DailyReportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := time.Now()
		if d := c.Query("date"); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			date = parsed
		}

		day := date.Format("2006-01-02")
		transactions, err := FetchTransactions(db, day, day, "", 0)
		if err != nil {
			return err
		}

		var inbound, outbound int
		for _, tx := range transactions {
			if tx.Type == models.TransactionInbound {
				inbound++
			} else {
				outbound++
			}
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"date":              day,
				"totalInbound":      inbound,
				"totalOutbound":     outbound,
				"totalTransactions": len(transactions),
				"transactions":      transactions,
			},
		})
	}
}
