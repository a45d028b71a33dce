package videos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"telepipe/internal/models"
	"telepipe/internal/storage"
	pkgmodels "telepipe/pkg/models"

	"gorm.io/gorm"
)

const defaultMimeType = "application/octet-stream"

var (
	ErrEmptyFile   = errors.New("empty file")
	ErrNotFound    = errors.New("video not found")
	ErrFileMissing = errors.New("file missing on server")
)

// Notifier is told about every committed upload.
type Notifier interface {
	NotifyVideo(video pkgmodels.Video)
}

type UploadInput struct {
	Title    string
	Filename string
	MimeType string
	Data     []byte
}

type Service struct {
	DB       *gorm.DB
	Store    *storage.Store
	BaseURL  string
	Notifier Notifier
}

func NewService(db *gorm.DB, store *storage.Store, baseURL string) *Service {
	return &Service{DB: db, Store: store, BaseURL: baseURL}
}

// Create writes the payload to storage and then inserts its record.
// The two steps are not transactional; a failed insert removes the file it just wrote.
func (s *Service) Create(ctx context.Context, in UploadInput) (*models.Video, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyFile
	}

	storedName := storage.StoredName(in.Filename)
	originalName := in.Filename
	if originalName == "" {
		originalName = storedName
	}
	title := in.Title
	if title == "" {
		title = originalName
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	size, err := s.Store.Write(storedName, in.Data)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	video := models.Video{
		Title:        title,
		OriginalName: originalName,
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         size,
	}
	if err := s.DB.WithContext(ctx).Create(&video).Error; err != nil {
		if rmErr := s.Store.Remove(storedName); rmErr != nil {
			log.Printf("Error removing orphan file %s: %v", storedName, rmErr)
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}

	log.Printf("Stored video %d (%s, %d bytes) as %s", video.ID, originalName, size, storedName)

	if s.Notifier != nil {
		s.Notifier.NotifyVideo(s.Public(video))
	}
	return &video, nil
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := s.DB.WithContext(ctx).First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Open looks up a record and opens its backing file. The caller closes the file.
func (s *Service) Open(ctx context.Context, id uint) (*models.Video, *os.File, error) {
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.Store.Open(video.StoredName)
	if errors.Is(err, storage.ErrMissing) {
		return video, nil, ErrFileMissing
	}
	if err != nil {
		return video, nil, err
	}
	return video, f, nil
}

func (s *Service) Public(video models.Video) pkgmodels.Video {
	return pkgmodels.NewVideo(video, s.BaseURL)
}
