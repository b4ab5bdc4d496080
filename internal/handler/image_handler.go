package handler

import (
	"io"
	"net/http"

	"github.com/karobar/karobar-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles work-order photo HTTP requests
type ImageHandler struct {
	imageService *service.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// UploadImageResponse represents the upload response
type UploadImageResponse struct {
	ID           string `json:"id"`
	BasePath     string `json:"basePath"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// UploadImage handles POST /api/v1/images
func (h *ImageHandler) UploadImage(c echo.Context) error {
	// If storage isn't configured, don't attempt to process/upload (would panic on nil storage).
	if h.imageService == nil || !h.imageService.IsEnabled() {
		return NewServiceUnavailableError(c, "Image uploads are disabled (storage not configured)")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	entityType := c.FormValue("entityType")
	if entityType == "" {
		entityType = "orders"
	}
	if entityType != "orders" {
		return NewValidationError(c, "Invalid entity type", []ValidationError{
			{Field: "entityType", Message: "Must be: orders"},
		})
	}

	var entityID int32 = 0 // Associated later when the order is saved

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	metadata, err := h.imageService.ProcessAndUpload(c.Request().Context(), entityType, entityID, data, file.Filename)
	if err != nil {
		switch err {
		case service.ErrImageTooLarge:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case service.ErrInvalidFormat:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case service.ErrImageTooSmall:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case service.ErrInvalidImageData:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Msg("Failed to upload image")
			return NewInternalError(c, "Failed to upload image")
		}
	}

	log.Info().
		Str("image_id", metadata.ID).
		Str("base_path", metadata.BasePath).
		Msg("Image uploaded successfully")

	return c.JSON(http.StatusCreated, UploadImageResponse{
		ID:           metadata.ID,
		BasePath:     metadata.BasePath,
		ThumbnailURL: metadata.ThumbnailURL,
		DisplayURL:   metadata.DisplayURL,
		OriginalURL:  metadata.OriginalURL,
	})
}

// GetImage handles GET /api/v1/images, resolving fresh presigned URLs
func (h *ImageHandler) GetImage(c echo.Context) error {
	if h.imageService == nil || !h.imageService.IsEnabled() {
		return NewServiceUnavailableError(c, "Image reads are disabled (storage not configured)")
	}

	basePath := c.QueryParam("path")
	if basePath == "" {
		return NewValidationError(c, "Image path required", []ValidationError{
			{Field: "path", Message: "Path is required"},
		})
	}

	metadata, err := h.imageService.GetMetadata(c.Request().Context(), basePath)
	if err != nil {
		log.Error().Err(err).Str("base_path", basePath).Msg("Failed to resolve image URLs")
		return NewInternalError(c, "Failed to resolve image URLs")
	}

	return c.JSON(http.StatusOK, UploadImageResponse{
		ID:           metadata.ID,
		BasePath:     metadata.BasePath,
		ThumbnailURL: metadata.ThumbnailURL,
		DisplayURL:   metadata.DisplayURL,
		OriginalURL:  metadata.OriginalURL,
	})
}

// DeleteImage handles DELETE /api/v1/images
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	if h.imageService == nil || !h.imageService.IsEnabled() {
		return NewServiceUnavailableError(c, "Image deletion is disabled (storage not configured)")
	}

	basePath := c.QueryParam("path")
	if basePath == "" {
		return NewValidationError(c, "Image path required", []ValidationError{
			{Field: "path", Message: "Path is required"},
		})
	}

	if err := h.imageService.DeleteAllVariants(c.Request().Context(), basePath); err != nil {
		log.Error().Err(err).Str("base_path", basePath).Msg("Failed to delete image")
		return NewInternalError(c, "Failed to delete image")
	}

	log.Info().Str("base_path", basePath).Msg("Image deleted successfully")
	return c.NoContent(http.StatusNoContent)
}
