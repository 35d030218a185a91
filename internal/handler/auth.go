package handler

import (
	"net/http"
	"time"

	"mailstats/internal/logger"
	"mailstats/internal/middleware"
	"mailstats/internal/model"
	"mailstats/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	acct, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	logger.Info("login.ok", "uid", acct.ID, "email", acct.Email)

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   acct.ID,
		"email": acct.Email,
		"name":  acct.Name,
		"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
	}).SignedString(middleware.JWTSecret)

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.User{ID: acct.ID, Email: acct.Email, Name: acct.Name},
	})
}

// CreateUser handles POST /api/auth/create-user
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if err := h.auth.CreateAccount(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		logger.Error("create account failed", "email", req.Email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "user " + req.Email + " created successfully",
		"email":   req.Email,
	})
}

// Init handles POST /api/init — seeds the default admin account so a fresh
// deployment is immediately usable.
func (h *AuthHandler) Init(c *gin.Context) {
	const email, password = "admin@example.com", "admin123"

	if err := h.auth.CreateAccount(c.Request.Context(), email, password, "Admin User"); err != nil {
		logger.Error("init failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "initialization failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "database initialized and test user created",
		"credentials": gin.H{"email": email, "password": password},
	})
}
