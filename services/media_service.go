package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"service-connect-server/config"
	"service-connect-server/models"
	"service-connect-server/types"
)

const maxPhotoSize = 5 * 1024 * 1024

// ErrMediaDisabled is returned when no image store is configured
var ErrMediaDisabled = errors.New("media uploads are not configured")

// PhotoUploader stores an image and returns its public URL
type PhotoUploader interface {
	Upload(ctx context.Context, folder, name string, file io.Reader) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL. An empty
// URL yields a nil uploader and media uploads are refused.
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, folder, name string, file io.Reader) (string, error) {
	overwrite := true
	unique := true
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       name,
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// MediaService handles worker profile photos
type MediaService struct {
	uploader PhotoUploader
	workers  *WorkerService
	folder   string
}

// NewMediaService creates a new media service. uploader may be nil.
func NewMediaService(uploader PhotoUploader, workers *WorkerService, folder string) *MediaService {
	return &MediaService{uploader: uploader, workers: workers, folder: folder}
}

// UploadProfilePhoto validates and stores a worker's profile photo
func (s *MediaService) UploadProfilePhoto(ctx context.Context, actor types.Actor, filename string, size int64, file io.Reader) (*models.Worker, error) {
	if !actor.IsWorker() {
		return nil, ErrForbidden
	}
	if size <= 0 || size > maxPhotoSize {
		return nil, validation("photo must be between 1 byte and 5MB")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, validation("unsupported photo type %q", ext)
	}
	if s.uploader == nil {
		return nil, ErrMediaDisabled
	}

	folder := fmt.Sprintf("%s/%d", s.folder, actor.ID)
	url, err := s.uploader.Upload(ctx, folder, "profile", file)
	if err != nil {
		log.Printf("❌ Profile photo upload failed for worker %d: %v", actor.ID, err)
		return nil, fmt.Errorf("photo upload failed: %w", err)
	}
	log.Printf("✅ Profile photo uploaded for worker %d", actor.ID)
	return s.workers.SetProfilePhoto(ctx, actor, url)
}
