package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	_ "image/gif" // register decoders for dimension probing
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	pkglogger "github.com/PT-GSA/ai-cms-backend/pkg/logger"
	"github.com/PT-GSA/ai-cms-backend/pkg/storage"
)

// MediaService handles uploads with image processing and S3 storage
type MediaService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, maxWidth int, uploadedBy *uuid.UUID) (*domain.Media, error)
	Get(id uuid.UUID) (*domain.Media, error)
	List(mimePrefix string, page, limit int) ([]*domain.Media, *common.Meta, error)
	UpdateAltText(id uuid.UUID, altText *string) (*domain.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PresignedURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error)
}

type mediaService struct {
	repo      repository.MediaRepository
	s3        *storage.S3Client
	maxSize   int64
	allowExts []string
}

// NewMediaService creates a new MediaService
func NewMediaService(repo repository.MediaRepository, s3Client *storage.S3Client) MediaService {
	return &mediaService{
		repo:    repo,
		s3:      s3Client,
		maxSize: 50 * 1024 * 1024, // 50MB
		allowExts: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
			".mp4", ".webm", ".mov",
			".pdf", ".doc", ".docx", ".xls", ".xlsx",
			".zip", ".tar", ".gz",
			".txt", ".csv", ".json",
		},
	}
}

// Upload stores a file and records its metadata. Raster images are probed
// for dimensions and resized to maxWidth when wider (0 disables resizing).
func (s *mediaService) Upload(ctx context.Context, file *multipart.FileHeader, maxWidth int, uploadedBy *uuid.UUID) (*domain.Media, error) {
	if s.s3 == nil {
		return nil, errors.New("media storage is not configured")
	}
	if file.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", common.ErrInvalidInput, s.maxSize/(1024*1024))
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	if !s.isAllowedExt(ext) {
		return nil, fmt.Errorf("%w: file type not allowed: %s", common.ErrInvalidInput, ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(data)
	if isDangerousContentType(contentType) {
		return nil, fmt.Errorf("%w: potentially dangerous file type detected", common.ErrInvalidInput)
	}

	var reader io.Reader = bytes.NewReader(data)
	size := int64(len(data))
	var width, height int

	if isImageExt(ext) && ext != ".svg" && ext != ".gif" {
		if img, format, decErr := image.Decode(bytes.NewReader(data)); decErr == nil {
			bounds := img.Bounds()
			width = bounds.Dx()
			height = bounds.Dy()

			if maxWidth > 0 && width > maxWidth {
				img = resizeImage(img, maxWidth)
				bounds = img.Bounds()
				width = bounds.Dx()
				height = bounds.Dy()

				var buf bytes.Buffer
				switch format {
				case "png":
					if err := png.Encode(&buf, img); err == nil {
						reader = &buf
						size = int64(buf.Len())
						contentType = "image/png"
						ext = ".png"
					}
				default:
					if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err == nil {
						reader = &buf
						size = int64(buf.Len())
						contentType = "image/jpeg"
						ext = ".jpg"
					}
				}
			}
		}
	}

	key := storage.GenerateKey("media", sanitizeFilename(file.Filename, ext))

	result, err := s.s3.Upload(ctx, key, reader, contentType, size)
	if err != nil {
		return nil, err
	}

	url := result.URL
	if result.CDNURL != "" {
		url = result.CDNURL
	}

	media := &domain.Media{
		Filename:   file.Filename,
		StorageKey: result.Key,
		URL:        url,
		MimeType:   contentType,
		Size:       size,
		Width:      width,
		Height:     height,
		UploadedBy: uploadedBy,
	}
	if err := s.repo.Create(media); err != nil {
		// Orphan cleanup: drop the just-uploaded object if the row insert fails
		_ = s.s3.Delete(ctx, result.Key)
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("key", result.Key).
		Int64("size", size).
		Str("content_type", contentType).
		Msg("media uploaded")

	return media, nil
}

func (s *mediaService) Get(id uuid.UUID) (*domain.Media, error) {
	media, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMediaNotFound
		}
		return nil, err
	}
	return media, nil
}

func (s *mediaService) List(mimePrefix string, page, limit int) ([]*domain.Media, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.List(mimePrefix, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return items, common.NewMeta(page, limit, total), nil
}

func (s *mediaService) UpdateAltText(id uuid.UUID, altText *string) (*domain.Media, error) {
	media, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	media.AltText = altText
	if err := s.repo.Update(media); err != nil {
		return nil, err
	}
	return media, nil
}

// Delete removes both the storage object and the metadata row
func (s *mediaService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.Get(id)
	if err != nil {
		return err
	}

	if s.s3 != nil {
		if err := s.s3.Delete(ctx, media.StorageKey); err != nil {
			pkglogger.GetLogger().Warn().
				Err(err).
				Str("key", media.StorageKey).
				Msg("storage delete failed, removing metadata anyway")
		}
	}

	return s.repo.Delete(id)
}

func (s *mediaService) PresignedURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	media, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if s.s3 == nil {
		return "", errors.New("media storage is not configured")
	}
	return s.s3.GetPresignedURL(ctx, media.StorageKey, expiry)
}

func (s *mediaService) isAllowedExt(ext string) bool {
	for _, a := range s.allowExts {
		if a == ext {
			return true
		}
	}
	return false
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return true
	}
	return false
}

func isDangerousContentType(ct string) bool {
	dangerous := []string{
		"application/x-executable",
		"application/x-sharedlib",
		"application/x-mach-binary",
		"application/x-dosexec",
	}
	for _, d := range dangerous {
		if strings.HasPrefix(ct, d) {
			return true
		}
	}
	return false
}

func sanitizeFilename(original, ext string) string {
	base := strings.TrimSuffix(path.Base(original), path.Ext(original))
	var result strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	s := result.String()
	if s == "" {
		s = "file"
	}
	return s + ext
}

// resizeImage resizes an image to the given max width, preserving aspect ratio
func resizeImage(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	if origWidth <= maxWidth {
		return img
	}

	newWidth := maxWidth
	newHeight := origHeight * newWidth / origWidth

	// Nearest-neighbor is good enough for dashboard previews
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := x * origWidth / newWidth
			srcY := y * origHeight / newHeight
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
