package service

import (
	"context"
	"errors"

	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/search"
)

// MedicineService инкапсулирует бизнес-логику вокруг каталога медикаментов
type MedicineService struct {
	repo repository.MedicineRepository
}

func NewMedicineService(repo repository.MedicineRepository) *MedicineService {
	return &MedicineService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func (s *MedicineService) Create(ctx context.Context, m domain.Medicine) (*domain.Medicine, error) {
	if m.Name == "" || m.Description == "" || m.Price < 0 || m.Stock < 0 {
		return nil, ErrInvalidInput
	}
	cp := m
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MedicineService) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) Update(ctx context.Context, m domain.Medicine) (*domain.Medicine, error) {
	if m.ID == "" || m.Name == "" || m.Price < 0 || m.Stock < 0 {
		return nil, ErrInvalidInput
	}
	cp := m
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MedicineService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *MedicineService) List(ctx context.Context) ([]domain.Medicine, error) {
	return s.repo.List(ctx)
}

// Search фильтрует снимок каталога по подстроке названия
func (s *MedicineService) Search(ctx context.Context, query string) ([]domain.Medicine, error) {
	snapshot, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Medicines(snapshot, query), nil
}
