// internal/forms/selection.go
package forms

import (
	"github.com/google/uuid"

	"github.com/javajoker/catalog-admin/internal/models"
)

// Selection is the set of product ids picked for a bulk operation. Order of
// selection is irrelevant; IDs reports them in insertion order for stable output.
type Selection struct {
	ids   []uuid.UUID
	index map[uuid.UUID]struct{}
}

func NewSelection(ids ...uuid.UUID) *Selection {
	s := &Selection{index: make(map[uuid.UUID]struct{})}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Selection) add(id uuid.UUID) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) remove(id uuid.UUID) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *Selection) Toggle(id uuid.UUID) {
	if s.Contains(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// ToggleAll works on the currently visible products: when every one of them is
// already selected the selection is cleared, otherwise it becomes exactly them.
func (s *Selection) ToggleAll(visible []models.Product) {
	if len(visible) > 0 && s.Len() == len(visible) && s.containsAll(visible) {
		s.Clear()
		return
	}
	s.Clear()
	for _, p := range visible {
		s.add(p.ID)
	}
}

func (s *Selection) containsAll(products []models.Product) bool {
	for _, p := range products {
		if !s.Contains(p.ID) {
			return false
		}
	}
	return true
}

func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[uuid.UUID]struct{})
}

func (s *Selection) Contains(id uuid.UUID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) IDs() []uuid.UUID {
	return append([]uuid.UUID(nil), s.ids...)
}

// Pick returns the selected products in list order.
func (s *Selection) Pick(products []models.Product) []models.Product {
	return Filter(products, func(p models.Product) bool { return s.Contains(p.ID) })
}
