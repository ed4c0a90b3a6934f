package controllers

import (
	"log"
	"net/http"

	"bo_backend_project/middleware"
	"bo_backend_project/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthController handles API token authentication
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new auth controller
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an admin and issues a bearer token for the REST API
// POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	var admin models.AdminUser
	if err := ac.db.Where("email = ? AND is_active = ?", req.Email, true).First(&admin).Error; err != nil {
		log.Printf("API login failed for %s: user not found", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !admin.CheckPassword(req.Password) {
		log.Printf("API login failed for %s: invalid password", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateAPIToken(admin.Email, admin.Name)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}
