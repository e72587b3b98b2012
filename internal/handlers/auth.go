package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/identity"
	"github.com/swtichedxp/Naotems-poll/internal/models"
	"github.com/swtichedxp/Naotems-poll/internal/workflow"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	})
	return token.SignedString(h.cfg.JWTSecret)
}

func (h *AuthHandler) isAdminUser(user *models.User) bool {
	return h.cfg.IsAdmin(user.MatricNumber) || h.cfg.IsAdmin(user.Username)
}

// Register handles student signup: matric number + public username + password.
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		MatricNumber string `json:"matric_number" binding:"required"`
		Username     string `json:"username" binding:"required,min=3"`
		Password     string `json:"password" binding:"required,min=6"`
		PhoneNumber  string `json:"phone_number"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matric number, username and a password of at least 6 characters are required"})
		return
	}

	matric := identity.NormalizeLoginID(input.MatricNumber)
	username := identity.NormalizeLoginID(input.Username)
	if matric == "" || !identity.IsMatric(matric) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid matric number (e.g. FPE/20/1234)"})
		return
	}
	if username == "" || identity.IsMatric(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid username"})
		return
	}

	// Distinct messages so the student knows which identifier collided.
	var existing models.User
	if err := h.db.Where("username = ?", username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This username is already taken"})
		return
	}
	if err := h.db.Where("matric_number = ?", matric).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This matric number is already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     username,
		MatricNumber: matric,
		Email:        identity.SyntheticEmail(matric, h.cfg.EmailDomain),
		Password:     string(hashedPassword),
		PhoneNumber:  input.PhoneNumber,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	tokenString, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:   tokenString,
		User:    user,
		IsAdmin: h.isAdminUser(&user),
		Message: "Signup successful",
	})
}

// authenticate resolves the login identifier and checks the password.
// A missing account and a wrong password both come back as AuthError so the
// response never reveals which identifiers exist.
func (h *AuthHandler) authenticate(loginID, password string) (*models.User, error) {
	user, err := identity.Resolve(h.db, loginID)
	if err != nil {
		var lookupErr *workflow.LookupError
		if errors.As(err, &lookupErr) {
			return nil, &workflow.AuthError{Reason: "unknown identifier"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &workflow.AuthError{Reason: "wrong password"}
	}
	return user, nil
}

// Login accepts either a matric number or a username plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		LoginID  string `json:"login_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authenticate(input.LoginID, input.Password)
	if err != nil {
		var authErr *workflow.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tokenString, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:   tokenString,
		User:    *user,
		IsAdmin: h.isAdminUser(user),
		Message: "Login successful",
	})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"matric_number": user.MatricNumber,
		"email":         user.Email,
		"is_admin":      h.isAdminUser(&user),
		"created_at":    user.CreatedAt,
	})
}
