package handlers

import (
	"net/http"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/services"
	"buziak_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.Register(c.Request.Context(), db, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please confirm your email.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(c.Request.Context(), db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GoogleLogin отправляет клиента на страницу согласия Google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	// State возвращается в callback и сверяется с cookie
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authService.GoogleAuthURL(state))
}

// GoogleCallback принимает редирект от Google после согласия
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req dto.GoogleCallbackRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	expected, err := c.Cookie("oauth_state")
	if err != nil || req.State != expected {
		h.HandleServiceError(c, appErrors.NewBadRequestError("Invalid OAuth state"))
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	db := h.GetDB(c)

	response, err := h.authService.GoogleLogin(c.Request.Context(), db, req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
