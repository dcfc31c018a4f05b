package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/config"
	dbpkg "github.com/skillbridge/registration-api/internal/db"
	"github.com/skillbridge/registration-api/internal/httpresp"
	"github.com/skillbridge/registration-api/internal/models"
	"github.com/skillbridge/registration-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Bootstrap cria o primeiro superadmin enquanto a base está vazia.
// Depois disso o cadastro público fecha: staff entra via CreateUser.
func (h *AuthHandler) Bootstrap(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var count int64
	h.db.Model(&models.User{}).Count(&count)
	if count > 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "registration_closed"})
		return
	}

	user, status, errCode := h.createUser(req.Name, req.Email, req.Password, req.Phone, models.RoleSuperadmin)
	if errCode != "" {
		c.JSON(status, gin.H{"error": errCode})
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// CreateUser é o caminho normal de cadastro de staff, atrás do grupo admin.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleStaff && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
		return
	}

	user, status, errCode := h.createUser(req.Name, req.Email, req.Password, req.Phone, role)
	if errCode != "" {
		c.JSON(status, gin.H{"error": errCode})
		return
	}

	httpresp.Created(c, gin.H{"user": userJSON(user)})
}

func (h *AuthHandler) createUser(name, email, password, phone, role string) (*models.User, int, string) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !validators.IsEmailDomainValid(email) {
		return nil, http.StatusBadRequest, "invalid_email_domain"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, "failed_to_hash_password"
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        phone,
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, http.StatusBadRequest, "email_already_exists"
		}
		return nil, http.StatusInternalServerError, "failed_to_create_user"
	}

	return &user, 0, ""
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if user.Banned {
		c.JSON(http.StatusForbidden, gin.H{"error": "account_banned"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(&user),
		"token": token,
	})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
