package user

import (
	"math"
	"strings"

	"warehouse-backend/internal/audit"
	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// snapshot is the audit-log view of a user, without the password hash.
type snapshot struct {
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"isActive"`
}

func snap(u *models.User) snapshot {
	return snapshot{Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive}
}

func writeAudit(db *gorm.DB, c *fiber.Ctx, action models.AuditAction, entityID uint, before, after any) {
	actor := auth.UserIDFromCtx(c)
	var actorID uint
	if actor != nil {
		actorID = *actor
	}
	err := audit.WriteLog(db, audit.LogOptions{
		UserID:    actorID,
		Action:    action,
		Entity:    "User",
		EntityID:  entityID,
		Before:    before,
		After:     after,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		logger.Sugar().Warnw("audit log write failed", "error", err)
	}
}

// GET /api/users
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 200 {
			limit = 20
		}

		q := db.Model(&models.User{})
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
		}
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		if isActive := c.Query("isActive"); isActive != "" {
			q = q.Where("is_active = ?", isActive == "true")
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var users []models.User
		err := q.Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&users).Error
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   users,
			"pagination": fiber.Map{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

// GET /api/users/:id
func GetUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var txCount int64
		db.Model(&models.InventoryTransaction{}).Where("user_id = ?", user.ID).Count(&txCount)

		return c.JSON(fiber.Map{
			"status": "success",
			"data": fiber.Map{
				"user":             user,
				"transactionCount": txCount,
			},
		})
	}
}

// POST /api/users
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email, password, and name are required")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		role := models.RoleOperator
		if body.Role != "" {
			if !models.ValidRole(body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid role")
			}
			role = models.UserRole(body.Role)
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 12)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}

		user := models.User{
			Email:        body.Email,
			Name:         body.Name,
			PasswordHash: string(hash),
			Role:         role,
			IsActive:     isActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		writeAudit(db, c, models.AuditActionCreate, user.ID, nil, snap(&user))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": "success",
			"data":   user,
		})
	}
}

// PUT /api/users/:id
func UpdateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		before := snap(&user)

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email != user.Email {
				var count int64
				db.Model(&models.User{}).Where("email = ?", email).Count(&count)
				if count > 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Email already in use")
				}
				user.Email = email
			}
		}
		if body.Name != nil {
			user.Name = *body.Name
		}
		if body.Role != nil {
			if !models.ValidRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid role")
			}
			user.Role = models.UserRole(*body.Role)
		}
		if body.IsActive != nil {
			user.IsActive = *body.IsActive
		}
		if body.Password != nil {
			if len(*body.Password) < 6 {
				return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), 12)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
			}
			user.PasswordHash = string(hash)
		}

		if err := db.Save(&user).Error; err != nil {
			return err
		}

		writeAudit(db, c, models.AuditActionUpdate, user.ID, before, snap(&user))

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   user,
		})
	}
}

// DELETE /api/users/:id — soft delete: the row stays, isActive flips off.
func DeleteUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		actor := auth.UserIDFromCtx(c)
		if actor != nil && *actor == uint(id) {
			return fiber.NewError(fiber.StatusBadRequest, "You cannot delete your own account")
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		before := snap(&user)

		user.IsActive = false
		if err := db.Save(&user).Error; err != nil {
			return err
		}

		writeAudit(db, c, models.AuditActionDelete, user.ID, before, snap(&user))

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "User deactivated successfully",
			"data":    user,
		})
	}
}

// POST /api/users/change-password
func ChangePasswordHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.UserIDFromCtx(c)
		if userID == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.CurrentPassword == "" || body.NewPassword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Current password and new password are required")
		}
		if len(body.NewPassword) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 6 characters")
		}

		var user models.User
		if err := db.First(&user, "id = ?", *userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 12)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user.PasswordHash = string(hash)
		if err := db.Save(&user).Error; err != nil {
			return err
		}

		writeAudit(db, c, models.AuditActionUpdate, user.ID, fiber.Map{"action": "password_change"}, fiber.Map{"action": "password_changed"})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Password changed successfully",
		})
	}
}
