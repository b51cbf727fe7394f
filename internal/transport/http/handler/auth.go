package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fastcart-api/internal/app"
	"fastcart-api/internal/model"
	"fastcart-api/internal/transport/http/response"
)

// AuthService is the credential side used by the auth routes.
type AuthService interface {
	Register(ctx context.Context, input app.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input app.LoginInput) (*app.AuthResult, error)
}

type AuthHandler struct {
	authService AuthService
	exposeError bool
}

type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

func NewAuthHandler(authService AuthService, exposeError bool) *AuthHandler {
	return &AuthHandler{authService: authService, exposeError: exposeError}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	_, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUsernameExists):
			response.Error(c, http.StatusBadRequest, "User already exists")
		default:
			_ = c.Error(err)
			response.Internal(c, err, h.exposeError)
		}
		return
	}

	response.JSON(c, http.StatusCreated, response.MessageResponse{Message: "User created successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found")
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusBadRequest, "Invalid password")
		default:
			_ = c.Error(err)
			response.Internal(c, err, h.exposeError)
		}
		return
	}

	response.JSON(c, http.StatusOK, LoginResponse{
		Message: "Login successful",
		UserID:  result.User.ID,
		Name:    result.User.Name,
		Token:   result.Token,
	})
}
