package service

import (
	"context"
	"errors"

	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/search"
)

// DonationService реализует логику донаций: планирование и поиск доноров.
// Записи о донациях не изменяются и не удаляются после создания.
type DonationService struct {
	donations repository.DonationRepository
}

func NewDonationService(donations repository.DonationRepository) *DonationService {
	return &DonationService{donations: donations}
}

var ErrInvalidBloodType = errors.New("invalid blood type")

// Schedule проверяет форму и создаёт запись со статусом scheduled
func (s *DonationService) Schedule(ctx context.Context, userID string, d domain.Donation) (*domain.Donation, error) {
	if userID == "" || d.Name == "" || d.Email == "" || d.Phone == "" {
		return nil, ErrInvalidInput
	}
	if d.DonationDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if !domain.IsValidBloodType(d.BloodType) {
		return nil, ErrInvalidBloodType
	}

	cp := d
	cp.UserID = userID
	cp.Status = domain.DonationStatusScheduled
	if err := s.donations.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *DonationService) List(ctx context.Context) ([]domain.Donation, error) {
	return s.donations.List(ctx)
}

// SearchDonors забирает снимок коллекции целиком и фильтрует его локально
func (s *DonationService) SearchDonors(ctx context.Context, c search.DonorCriteria) ([]domain.Donation, error) {
	snapshot, err := s.donations.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Donors(snapshot, c), nil
}
