package auth

import (
	"strings"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func userPayload(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := db.First(&user, "email = ?", body.Email).Error; err != nil || !user.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not sign token")
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"token": token,
				"user":  userPayload(&user),
			},
		})
	}
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email, password and name are required")
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
		}

		role := models.RoleOperator
		if body.Role != "" {
			if !models.ValidRole(body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid role")
			}
			role = models.UserRole(body.Role)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 12)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user := models.User{
			Email:        body.Email,
			Name:         body.Name,
			PasswordHash: string(hash),
			Role:         role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not sign token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"token": token,
				"user":  userPayload(&user),
			},
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserIDFromCtx(c)
		if userID == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		var user models.User
		if err := db.First(&user, "id = ?", *userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   user,
		})
	}
}
