package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/idgen"
	"github.com/vibechat/service/internal/models"
	"github.com/vibechat/service/internal/security"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg}
}

// registerRequest defines the request body for registration.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	username := strings.TrimSpace(body.Username)
	email := strings.TrimSpace(body.Email)
	password := strings.TrimSpace(body.Password)
	if username == "" {
		respondError(c, validationError("Missing username"))
		return
	}
	if email == "" {
		respondError(c, validationError("Missing email"))
		return
	}
	if password == "" {
		respondError(c, validationError("Missing password"))
		return
	}

	ctx := c.Request.Context()

	var existing int64
	if errCount := h.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&existing).Error; errCount != nil {
		respondError(c, errCount)
		return
	}
	if existing > 0 {
		respondError(c, validationError("Username already registered"))
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&existing).Error; errCount != nil {
		respondError(c, errCount)
		return
	}
	if existing > 0 {
		respondError(c, validationError("Email already registered"))
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		respondError(c, errHash)
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(body.FullName),
		UserID:   idgen.UserID(),
		APIToken: idgen.APIToken(),
		Active:   true,
	}
	if errCreate := h.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		// A concurrent register can still lose the uniqueness race
		// after the pre-checks above.
		if isDuplicateKey(errCreate) {
			respondError(c, conflictError("Username or email already registered"))
			return
		}
		respondError(c, errCreate)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user": gin.H{
			"user_id":   user.UserID,
			"username":  user.Username,
			"email":     user.Email,
			"full_name": user.FullName,
		},
	})
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and returns their public profile, API
// token, and a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		respondError(c, validationError("Missing username or password"))
		return
	}

	var user models.User
	errFind := h.db.WithContext(c.Request.Context()).
		Where("username = ?", username).First(&user).Error
	// The same message covers an unknown username and a wrong password
	// so responses never reveal which usernames exist.
	if errFind != nil || !security.CheckPassword(user.Password, body.Password) {
		respondError(c, unauthorizedError("Invalid username or password"))
		return
	}
	if !user.Active {
		respondError(c, forbiddenError("Account is inactive"))
		return
	}

	data := gin.H{
		"user_id":        user.UserID,
		"username":       user.Username,
		"email":          user.Email,
		"full_name":      user.FullName,
		"api_token":      user.APIToken,
		"developer_mode": user.DeveloperMode,
	}
	if h.jwtCfg.Secret != "" {
		accessToken, errSign := security.SignUserToken(h.jwtCfg.Secret, user.UserID, user.Username, h.jwtCfg.Expiry)
		if errSign != nil {
			log.WithError(errSign).Warn("auth: sign access token failed")
		} else {
			data["access_token"] = accessToken
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data":    data,
	})
}
