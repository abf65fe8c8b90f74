package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"penny_count/internal/models"
	"penny_count/internal/store"
)

type UserController struct {
	Store store.Store
}

func NewUserController(s store.Store) *UserController {
	return &UserController{Store: s}
}

// ListUsers returns every user unfiltered; role scoping happens client-side.
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Store.ListUsers(c.Request.Context())
	respondList(c, "users", users, err)
}

type createUserInput struct {
	Name          string   `json:"name" binding:"required"`
	Phone         string   `json:"phone" binding:"required"`
	Password      string   `json:"password" binding:"required"`
	Role          string   `json:"role" binding:"required"`
	AssignedLines []string `json:"assigned_lines"`
}

// CreateUser lets the owner add co-owners and field agents.
func (uc *UserController) CreateUser(c *gin.Context) {
	var input createUserInput
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
		Name:          input.Name,
		Phone:         input.Phone,
		Password:      string(hashed),
		Role:          role,
		IsActive:      true,
		AssignedLines: input.AssignedLines,
	}
	if err := uc.Store.CreateUser(c.Request.Context(), &user); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type updateUserInput struct {
	Name          *string   `json:"name"`
	Phone         *string   `json:"phone"`
	Password      *string   `json:"password"`
	Role          *string   `json:"role"`
	IsActive      *bool     `json:"is_active"`
	AssignedLines *[]string `json:"assigned_lines"`
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	user, err := uc.Store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondWriteErr(c, err)
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}
		user.Password = string(hashed)
	}
	if input.Role != nil {
		role, err := normalizeRole(*input.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.AssignedLines != nil {
		user.AssignedLines = *input.AssignedLines
	}

	if err := uc.Store.UpdateUser(c.Request.Context(), user); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser deactivates by default; users are soft-deleted so their history
// stays attributable. ?purge=true removes the record outright.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if c.Query("purge") == "true" {
		if err := uc.Store.DeleteUser(ctx, id); err != nil {
			respondWriteErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user removed"})
		return
	}

	user, err := uc.Store.GetUser(ctx, id)
	if err != nil {
		respondWriteErr(c, err)
		return
	}
	user.IsActive = false
	if err := uc.Store.UpdateUser(ctx, user); err != nil {
		respondWriteErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated", "user": user})
}
