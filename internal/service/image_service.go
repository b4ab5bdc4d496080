package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/karobar/karobar-backend/internal/repository/storage"
)

const (
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 50
	MinImageHeight = 50
	ThumbnailWidth = 200
	DisplayWidth   = 800
	JPEGQuality    = 85

	// PresignExpiry bounds how long a generated image URL stays valid.
	PresignExpiry = 15 * time.Minute
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var imageVariants = []string{"thumb", "display", "original"}

// ImageMetadata carries the stored base path plus presigned URLs for each size.
type ImageMetadata struct {
	ID           string `json:"id"`
	BasePath     string `json:"basePath"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ImageService handles work-order photo processing and storage. Uploads are
// resized into thumbnail, display and original variants; reads go through
// short-lived presigned URLs.
type ImageService struct {
	storage storage.ImageRepository
}

// NewImageService creates a new ImageService
func NewImageService(storage storage.ImageRepository) *ImageService {
	return &ImageService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ImageService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ImageService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// ProcessAndUpload validates the image, resizes it into all variants and
// uploads them. The returned BasePath is what callers persist on the entity.
func (s *ImageService) ProcessAndUpload(ctx context.Context, entityType string, entityID int32, data []byte, filename string) (*ImageMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	imageID := uuid.New().String()
	basePath := fmt.Sprintf("%s/%d/%s", entityType, entityID, imageID)

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	uploaded := make([]string, 0, len(variants))
	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := variantPath(basePath, variant.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			// Best-effort cleanup of variants uploaded before the failure.
			for _, path := range uploaded {
				_ = s.storage.Delete(ctx, path)
			}
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	metadata := &ImageMetadata{ID: imageID, BasePath: basePath}
	if err := s.fillURLs(ctx, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// GetMetadata resolves presigned URLs for an already-stored image.
func (s *ImageService) GetMetadata(ctx context.Context, basePath string) (*ImageMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}
	metadata := &ImageMetadata{BasePath: basePath}
	if err := s.fillURLs(ctx, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (s *ImageService) fillURLs(ctx context.Context, metadata *ImageMetadata) error {
	for _, variant := range imageVariants {
		url, err := s.storage.GeneratePresignedURL(ctx, variantPath(metadata.BasePath, variant), PresignExpiry)
		if err != nil {
			return fmt.Errorf("failed to presign %s variant: %w", variant, err)
		}
		switch variant {
		case "thumb":
			metadata.ThumbnailURL = url
		case "display":
			metadata.DisplayURL = url
		case "original":
			metadata.OriginalURL = url
		}
	}
	return nil
}

// DeleteAllVariants removes every stored size of an image. Missing objects are
// not treated as errors.
func (s *ImageService) DeleteAllVariants(ctx context.Context, basePath string) error {
	if basePath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrImageStorageNotConfigured
	}

	for _, variant := range imageVariants {
		if err := s.storage.Delete(ctx, variantPath(basePath, variant)); err != nil {
			continue
		}
	}
	return nil
}

func variantPath(basePath, variant string) string {
	return basePath + "_" + variant + ".jpg"
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
