package controllers

import (
	"context"
	"net/http"

	"storefront-api/logger"
	"storefront-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthServiceAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthController struct {
	authService AuthServiceAPI
}

func NewAuthController(as AuthServiceAPI) *AuthController {
	return &AuthController{authService: as}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info(c, "User registered", zap.String("user_id", user.ID.Hex()))
	respond(c, http.StatusCreated, "User registered successfully", user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingDetails(err))
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Logged in successfully", gin.H{"token": token})
}
