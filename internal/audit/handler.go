package audit

import (
	"math"

	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/audit-logs
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}

		q := db.Model(&models.AuditLog{})
		if entity := c.Query("entity"); entity != "" {
			q = q.Where("entity = ?", entity)
		}
		if action := c.Query("action"); action != "" {
			q = q.Where("action = ?", action)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var logs []models.AuditLog
		err := q.Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&logs).Error
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   logs,
			"pagination": fiber.Map{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}
