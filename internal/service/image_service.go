package service

import (
	"context"
	"io"
	"time"

	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/storage"
)

// ImageService загрузка файлов в blob-хранилище и учёт метаданных
// в коллекции images
type ImageService struct {
	images repository.ImageRepository
	blobs  storage.BlobStore
}

func NewImageService(images repository.ImageRepository, blobs storage.BlobStore) *ImageService {
	return &ImageService{images: images, blobs: blobs}
}

// Upload кладёт файл в хранилище и записывает метаданные с полученным URL
func (s *ImageService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.Image, error) {
	if filename == "" {
		return nil, ErrInvalidInput
	}
	key := storage.ObjectKey(filename)
	url, err := s.blobs.Upload(ctx, key, r)
	if err != nil {
		return nil, err
	}

	img := domain.Image{
		URL:       url,
		Name:      filename,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.images.Create(ctx, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *ImageService) List(ctx context.Context) ([]domain.Image, error) {
	return s.images.List(ctx)
}

// GetByName поиск метаданных по точному имени файла
func (s *ImageService) GetByName(ctx context.Context, name string) (*domain.Image, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	return s.images.GetByName(ctx, name)
}
