package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"penny_count/internal/middleware"
	"penny_count/internal/models"
	"penny_count/internal/store"
)

type AuthController struct {
	Store store.Store
}

func NewAuthController(s store.Store) *AuthController {
	return &AuthController{Store: s}
}

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Signup registers the very first owner account. Everyone else is created by
// the owner through the users endpoints.
func (ac *AuthController) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := normalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := ac.Store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "phone already in use"})
			return
		}
		respondWriteErr(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login checks phone + password and hands back a JWT the dashboard carries on
// every request.
func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := ac.Store.ListUsers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("login: could not load users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	var user *models.User
	for i := range users {
		if users[i].Phone == body.Phone {
			user = &users[i]
			break
		}
	}
	if user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func normalizeRole(role string) (string, error) {
	switch role {
	case "":
		return models.RoleOwner, nil
	case models.RoleOwner, models.RoleCoOwner, models.RoleAgent:
		return role, nil
	}
	return "", errInvalidRole
}
