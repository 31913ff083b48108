package handlers

import (
	"net/http"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/services"
	"buziak_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.adminService.Login(c.Request.Context(), db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	db := h.GetDB(c)

	users, err := h.adminService.ListUsers(c.Request.Context(), db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		h.HandleServiceError(c, appErrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	db := h.GetDB(c)

	user, err := h.adminService.GetUserDetails(c.Request.Context(), db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ToggleBlock(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		h.HandleServiceError(c, appErrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	db := h.GetDB(c)

	user, err := h.adminService.ToggleBlock(c.Request.Context(), db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Block status updated",
		"isBlocked": user.IsBlocked,
	})
}

func (h *AdminHandler) ListVerificationQueue(c *gin.Context) {
	db := h.GetDB(c)

	users, err := h.adminService.ListVerificationQueue(c.Request.Context(), db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) SetVerified(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		h.HandleServiceError(c, appErrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	var req dto.VerifyUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.adminService.SetVerified(c.Request.Context(), db, userID, *req.Verified); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification status updated"})
}
