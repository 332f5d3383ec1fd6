package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
)

const maxUploadSize = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Upload handles profile image uploads.
type Upload struct {
	storage model.Storage
	logger  *logger.Logger
}

// NewUpload creates a new Upload handler.
func NewUpload(storage model.Storage, logger *logger.Logger) *Upload {
	return &Upload{storage: storage, logger: logger}
}

// UploadImage stores the multipart "image" file and returns its public
// URL.
func (h *Upload) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeError(c, apierrors.NewErrValidation("Image file is required"))
		return
	}

	if fileHeader.Size > maxUploadSize {
		writeError(c, apierrors.NewErrValidation("Image must be smaller than 5 MB"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		writeError(c, apierrors.NewErrValidation("Only JPEG, PNG, and WebP images are allowed"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, apierrors.NewErrInternal(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("profile-images/%s%s", uuid.New(), ext)

	url, err := h.storage.Upload(c.Request.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		h.logger.Error("Upload handler: image upload failed", "key", key, "error", err.Error())
		writeError(c, apierrors.NewErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
