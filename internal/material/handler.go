package material

import (
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMaterialRequest struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	MinStock    float64 `json:"minStock"`
}

type UpdateMaterialRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
	MinStock    *float64 `json:"minStock"`
}

// GET /api/materials
func ListMaterialsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := db.Order("name ASC").Find(&materials).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   materials,
		})
	}
}

// GET /api/materials/:id
func GetMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid material id")
		}

		var material models.Material
		if err := db.First(&material, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Material not found")
		}

		var summary models.StockSummary
		var stockSummary *models.StockSummary
		if err := db.First(&summary, "material_id = ?", material.ID).Error; err == nil {
			stockSummary = &summary
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"material":     material,
				"stockSummary": stockSummary,
			},
		})
	}
}

// POST /api/materials
func CreateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Barcode == "" || body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode, name and unit are required")
		}
		if body.MinStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "minStock must not be negative")
		}

		var count int64
		db.Model(&models.Material{}).Where("barcode = ?", body.Barcode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Barcode already registered")
		}

		material := models.Material{
			Barcode:     body.Barcode,
			Name:        body.Name,
			Description: body.Description,
			Unit:        body.Unit,
			MinStock:    body.MinStock,
		}
		if err := db.Create(&material).Error; err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "success",
			"data":   material,
		})
	}
}

// PUT /api/materials/:id — barcode is immutable after creation.
func UpdateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid material id")
		}

		var material models.Material
		if err := db.First(&material, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Material not found")
		}

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			material.Name = *body.Name
		}
		if body.Description != nil {
			material.Description = *body.Description
		}
		if body.Unit != nil {
			material.Unit = *body.Unit
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minStock must not be negative")
			}
			material.MinStock = *body.MinStock
		}

		if err := db.Save(&material).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   material,
		})
	}
}

// DELETE /api/materials/:id
func DeleteMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid material id")
		}

		var material models.Material
		if err := db.First(&material, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Material not found")
		}

		if err := db.Delete(&material).Error; err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
