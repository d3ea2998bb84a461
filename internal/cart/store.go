package cart

import (
	"sync"

	"bloodconnect/internal/domain"
)

// Store держит корзины по токену сессии в памяти процесса. Корзины живут
// до checkout или до рестарта; никакой персистентности.
// Сам Cart рассчитан на одного вызывающего, поэтому Store сериализует
// доступ к нему.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) cart(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	return c
}

// AddItem добавляет товар в корзину сессии
func (s *Store) AddItem(sessionID string, m domain.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).AddItem(m)
}

// RemoveItem уменьшает или удаляет позицию в корзине сессии
func (s *Store) RemoveItem(sessionID, medicineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).RemoveItem(medicineID)
}

// Snapshot возвращает позиции и необработанную сумму корзины
func (s *Store) Snapshot(sessionID string) ([]Line, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(sessionID)
	return c.Lines(), c.Total()
}

// Checkout очищает корзину сессии; всегда успешен
func (s *Store) Checkout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
