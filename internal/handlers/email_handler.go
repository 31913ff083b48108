package handlers

import (
	"net/http"

	"buziak_backend/internal/services"
	"buziak_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// EmailHandler обслуживает коды подтверждения email и сброс пароля
type EmailHandler struct {
	*BaseHandler
	authService         services.AuthService
	confirmationService services.ConfirmationService
	echoCodes           bool // вне production код возвращается в ответе для отладки
}

func NewEmailHandler(base *BaseHandler, authService services.AuthService, confirmationService services.ConfirmationService, echoCodes bool) *EmailHandler {
	return &EmailHandler{
		BaseHandler:         base,
		authService:         authService,
		confirmationService: confirmationService,
		echoCodes:           echoCodes,
	}
}

func (h *EmailHandler) SendCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	code, err := h.confirmationService.IssueCode(c.Request.Context(), db, req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := gin.H{"message": "Confirmation code sent"}
	if h.echoCodes {
		resp["code"] = code
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmailHandler) VerifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.confirmationService.VerifyCode(c.Request.Context(), db, req.Email, req.Code); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EmailHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.RequestPasswordReset(c.Request.Context(), db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent"})
}

// VerifyResetToken - предварительная проверка токена перед показом формы
// нового пароля. Токен при этом не гасится; ответ всегда 200,
// клиент смотрит на isValid.
func (h *EmailHandler) VerifyResetToken(c *gin.Context) {
	token := c.Param("token")
	db := h.GetDB(c)

	isValid := token != "" && h.authService.VerifyResetToken(db, token)
	c.JSON(http.StatusOK, gin.H{"isValid": isValid})
}

func (h *EmailHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ResetPassword(c.Request.Context(), db, req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
