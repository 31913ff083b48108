package handlers

import (
	"mime/multipart"
	"net/http"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	*BaseHandler
	photoService services.PhotoService
}

func NewPhotoHandler(base *BaseHandler, photoService services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		BaseHandler:  base,
		photoService: photoService,
	}
}

// UploadPhoto - загрузка фотографии в слот анкеты
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	position, err := ParseParamInt(c, "position")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	upload, file, ok := h.readUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	db := h.GetDB(c)

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), db, userID, position, upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photo)
}

func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	position, err := ParseParamInt(c, "position")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	if err := h.photoService.DeletePhoto(c.Request.Context(), db, userID, position); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}

// UploadVerificationPhoto - фото для ручной верификации анкеты
func (h *PhotoHandler) UploadVerificationPhoto(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	upload, file, ok := h.readUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	db := h.GetDB(c)

	if err := h.photoService.UploadVerificationPhoto(c.Request.Context(), db, userID, upload); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification photo submitted"})
}

// readUpload достает файл из multipart-поля "photo".
// Закрытие файла остается на вызывающем.
func (h *PhotoHandler) readUpload(c *gin.Context) (*services.PhotoUpload, multipart.File, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.HandleServiceError(c, appErrors.ErrFileRequired)
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, appErrors.InternalError(err))
		return nil, nil, false
	}

	return &services.PhotoUpload{
		Reader:      file,
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, file, true
}
