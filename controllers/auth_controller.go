package controllers

import (
	"net/http"

	"pushbridge/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Lifecycle *services.LifecycleAdapter
}

// constructor
func NewAuthController(lc *services.LifecycleAdapter) *AuthController {
	return &AuthController{Lifecycle: lc}
}

type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := services.RegisterUser(input.Email, input.Password, input.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := services.AuthenticateUser(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// POST /auth/logout — best-effort: every device of the caller stops receiving
// pushes until it re-registers.
func (ac *AuthController) Logout(c *gin.Context) {
	uid := c.GetUint("userID")

	ac.Lifecycle.UserLoggedOut(uid)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
