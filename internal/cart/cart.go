package cart

import (
	"math"

	"bloodconnect/internal/domain"
)

// Line позиция корзины. Цена фиксируется в момент добавления и не меняется
// при последующих изменениях каталога.
type Line struct {
	MedicineID string  `json:"medicine_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int64   `json:"quantity"`
}

// Cart упорядоченный набор позиций одной сессии; не более одной позиции
// на medicine id, quantity всегда >= 1
type Cart struct {
	lines []Line
}

// AddItem увеличивает количество существующей позиции либо добавляет новую
// с quantity = 1
func (c *Cart) AddItem(m domain.Medicine) {
	for i := range c.lines {
		if c.lines[i].MedicineID == m.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		MedicineID: m.ID,
		Name:       m.Name,
		UnitPrice:  m.Price,
		Quantity:   1,
	})
}

// RemoveItem уменьшает количество на 1; позиция с quantity == 1 удаляется
// целиком. Отсутствующий id — не ошибка.
func (c *Cart) RemoveItem(medicineID string) {
	for i := range c.lines {
		if c.lines[i].MedicineID != medicineID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Total сумма unitPrice * quantity по всем позициям; округление до центов
// выполняется только на выводе (RoundPrice)
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// Lines возвращает копию позиций в порядке добавления
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Checkout безусловно очищает корзину. Заказ никуда не записывается и
// операция не может завершиться ошибкой.
func (c *Cart) Checkout() {
	c.lines = nil
}

// RoundPrice округляет сумму до двух знаков для показа пользователю
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
