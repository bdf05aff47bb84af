package product

import (
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	MinStock    float64 `json:"minStock"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
	MinStock    *float64 `json:"minStock"`
}

// GET /api/products
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.Order("name ASC").Find(&products).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   products,
		})
	}
}

// GET /api/products/:id
func GetProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var summary models.StockSummary
		var stockSummary *models.StockSummary
		if err := db.First(&summary, "product_id = ?", product.ID).Error; err == nil {
			stockSummary = &summary
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"product":      product,
				"stockSummary": stockSummary,
			},
		})
	}
}

// POST /api/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
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
		db.Model(&models.Product{}).Where("barcode = ?", body.Barcode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Barcode already registered")
		}

		product := models.Product{
			Barcode:     body.Barcode,
			Name:        body.Name,
			Description: body.Description,
			Unit:        body.Unit,
			MinStock:    body.MinStock,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "success",
			"data":   product,
		})
	}
}

// PUT /api/products/:id — barcode is immutable after creation.
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			product.Name = *body.Name
		}
		if body.Description != nil {
			product.Description = *body.Description
		}
		if body.Unit != nil {
			product.Unit = *body.Unit
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minStock must not be negative")
			}
			product.MinStock = *body.MinStock
		}

		if err := db.Save(&product).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   product,
		})
	}
}

// DELETE /api/products/:id
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		if err := db.Delete(&product).Error; err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
