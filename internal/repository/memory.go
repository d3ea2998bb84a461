package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bloodconnect/internal/domain"
)

// MemoryStore объединённое in-memory хранилище всех коллекций.
// Слайсы сохраняют порядок вставки: поиск обязан отдавать результаты
// в исходном порядке коллекции.
type MemoryStore struct {
	mu        sync.RWMutex
	donations []domain.Donation
	medicines []domain.Medicine
	users     []domain.User
	images    []domain.Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Ensure interfaces
var _ MedicineRepository = (*MemoryStore)(nil)

// остальные коллекции реализованы типами-обёртками ниже

// MedicineRepository implementation
func (m *MemoryStore) Create(ctx context.Context, med *domain.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med.ID = uuid.NewString()
	if med.CreatedAt.IsZero() {
		med.CreatedAt = time.Now().UTC()
	}
	m.medicines = append(m.medicines, *med)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, med := range m.medicines {
		if med.ID == id {
			cp := med
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Update(ctx context.Context, med *domain.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.medicines {
		if m.medicines[i].ID == med.ID {
			med.CreatedAt = m.medicines[i].CreatedAt
			m.medicines[i] = *med
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.medicines {
		if m.medicines[i].ID == id {
			m.medicines = append(m.medicines[:i], m.medicines[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context) ([]domain.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Medicine, len(m.medicines))
	copy(out, m.medicines)
	return out, nil
}

// MemoryDonations коллекция донаций поверх общего хранилища
type MemoryDonations struct{ store *MemoryStore }

func NewMemoryDonations(store *MemoryStore) *MemoryDonations { return &MemoryDonations{store: store} }

var _ DonationRepository = (*MemoryDonations)(nil)

func (md *MemoryDonations) Create(ctx context.Context, d *domain.Donation) error {
	md.store.mu.Lock()
	defer md.store.mu.Unlock()
	d.ID = uuid.NewString()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	md.store.donations = append(md.store.donations, *d)
	return nil
}

func (md *MemoryDonations) List(ctx context.Context) ([]domain.Donation, error) {
	md.store.mu.RLock()
	defer md.store.mu.RUnlock()
	out := make([]domain.Donation, len(md.store.donations))
	copy(out, md.store.donations)
	return out, nil
}

// MemoryUsers коллекция пользователей поверх общего хранилища
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.mu.Lock()
	defer mu.store.mu.Unlock()
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	mu.store.users = append(mu.store.users, *u)
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	mu.store.mu.RLock()
	defer mu.store.mu.RUnlock()
	for _, u := range mu.store.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mu *MemoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	mu.store.mu.RLock()
	defer mu.store.mu.RUnlock()
	for _, u := range mu.store.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// MemoryImages коллекция метаданных изображений поверх общего хранилища
type MemoryImages struct{ store *MemoryStore }

func NewMemoryImages(store *MemoryStore) *MemoryImages { return &MemoryImages{store: store} }

var _ ImageRepository = (*MemoryImages)(nil)

func (mi *MemoryImages) Create(ctx context.Context, img *domain.Image) error {
	mi.store.mu.Lock()
	defer mi.store.mu.Unlock()
	img.ID = uuid.NewString()
	mi.store.images = append(mi.store.images, *img)
	return nil
}

func (mi *MemoryImages) List(ctx context.Context) ([]domain.Image, error) {
	mi.store.mu.RLock()
	defer mi.store.mu.RUnlock()
	out := make([]domain.Image, len(mi.store.images))
	copy(out, mi.store.images)
	return out, nil
}

func (mi *MemoryImages) GetByName(ctx context.Context, name string) (*domain.Image, error) {
	mi.store.mu.RLock()
	defer mi.store.mu.RUnlock()
	for _, img := range mi.store.images {
		if img.Name == name {
			cp := img
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}
