package repository

import (
	"context"
	"errors"

	"bloodconnect/internal/domain"
)

// ErrNotFound возвращается, когда документ не найден
var ErrNotFound = errors.New("not found")

// DonationRepository интерфейс коллекции донаций. Записи создаются и
// читаются целиком; изменение и удаление не предусмотрены.
type DonationRepository interface {
	Create(ctx context.Context, d *domain.Donation) error
	List(ctx context.Context) ([]domain.Donation, error)
}

// MedicineRepository интерфейс каталога медикаментов
type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Medicine, error)
}

// UserRepository интерфейс коллекции пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ImageRepository интерфейс коллекции метаданных изображений
type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image) error
	List(ctx context.Context) ([]domain.Image, error)
	GetByName(ctx context.Context, name string) (*domain.Image, error)
}
