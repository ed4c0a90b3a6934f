package admin

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"bo_backend_project/config"
	"bo_backend_project/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthController handles admin authentication
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new auth controller
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// isSecureMode returns true if running in production mode (HTTPS)
func isSecureMode() bool {
	return config.AppConfig.Environment == "production"
}

const loginPageHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <div style="width: 350px; margin: 100px auto; padding: 30px; border: 1px solid #ddd; border-radius: 12px;">
    <h2 style="text-align: center; color: #333;">관리자 로그인 (BO)</h2>
    <p style="color: #e74c3c; text-align: center;">%s</p>
    <form action="/admin/login" method="post" style="display: flex; flex-direction: column; gap: 15px;">
      <input type="email" name="email" placeholder="이메일" required style="padding: 12px;">
      <input type="password" name="password" placeholder="비밀번호" required style="padding: 12px;">
      <button type="submit" style="padding: 12px; background: #2c3e50; color: white; border: none; cursor: pointer;">로그인</button>
    </form>
  </div>
</body>
</html>`

func renderLogin(c *gin.Context, status int, errMsg string) {
	c.Data(status, "text/html; charset=utf-8", []byte(fmt.Sprintf(loginPageHTML, errMsg)))
}

// LoginPage shows the login page
// GET /admin/login
func (ac *AuthController) LoginPage(c *gin.Context) {
	if _, err := ac.getSessionFromCookie(c); err == nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	renderLogin(c, http.StatusOK, c.Query("error"))
}

// Login handles the login form submission
// POST /admin/login
func (ac *AuthController) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		renderLogin(c, http.StatusBadRequest, "이메일과 비밀번호를 입력해주세요.")
		return
	}

	var admin models.AdminUser
	if err := ac.db.Where("email = ? AND is_active = ?", email, true).First(&admin).Error; err != nil {
		log.Printf("Admin login failed for %s: user not found", email)
		renderLogin(c, http.StatusUnauthorized, "아이디 또는 비밀번호가 잘못되었습니다.")
		return
	}

	if !admin.CheckPassword(password) {
		log.Printf("Admin login failed for %s: invalid password", email)
		renderLogin(c, http.StatusUnauthorized, "아이디 또는 비밀번호가 잘못되었습니다.")
		return
	}

	token, err := generateSessionToken()
	if err != nil {
		renderLogin(c, http.StatusInternalServerError, "세션 생성에 실패했습니다.")
		return
	}

	session := models.AdminSession{
		AdminUserID: admin.ID,
		Token:       token,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	if err := ac.db.Create(&session).Error; err != nil {
		renderLogin(c, http.StatusInternalServerError, "세션 생성에 실패했습니다.")
		return
	}

	now := time.Now()
	ac.db.Model(&admin).Update("last_login_at", now)

	c.SetCookie(config.AppConfig.AuthCookieName, token, 86400, "/", "", isSecureMode(), true)

	log.Printf("Admin user %s logged in successfully", email)
	c.Redirect(http.StatusFound, "/admin")
}

// Logout handles logout
// GET /admin/logout
func (ac *AuthController) Logout(c *gin.Context) {
	cookieName := config.AppConfig.AuthCookieName
	token, err := c.Cookie(cookieName)
	if err == nil && token != "" {
		ac.db.Where("token = ?", token).Delete(&models.AdminSession{})
	}

	c.SetCookie(cookieName, "", -1, "/", "", isSecureMode(), true)
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthMiddleware checks if the request carries a valid admin session
func (ac *AuthController) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := ac.getSessionFromCookie(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		c.Set("admin_user", session.AdminUser)
		c.Set("admin_session", session)
		c.Next()
	}
}

// getSessionFromCookie retrieves the admin session from the cookie
func (ac *AuthController) getSessionFromCookie(c *gin.Context) (*models.AdminSession, error) {
	token, err := c.Cookie(config.AppConfig.AuthCookieName)
	if err != nil {
		return nil, err
	}

	var session models.AdminSession
	if err := ac.db.Preload("AdminUser").Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}

	if session.IsExpired() {
		ac.db.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// generateSessionToken creates a random session token
func generateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
