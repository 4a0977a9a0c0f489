// Package recent хранит ограниченное окно недавно отправленных заголовков.
package recent

import "sync"

// DefaultMax — размер окна по умолчанию.
const DefaultMax = 25

// Set — множество заголовков фиксированной ёмкости с вытеснением по порядку добавления.
// При переполнении удаляется самый давно добавленный заголовок, обращения порядок не меняют.
type Set struct {
	mu    sync.Mutex
	items []string // от старых к новым
	max   int
}

// New создаёт пустое окно ёмкостью max. Ёмкость 0 допустима и отключает дедупликацию.
func New(max int) *Set {
	if max < 0 {
		max = 0
	}
	return &Set{items: make([]string, 0, max), max: max}
}

// Add добавляет title как самый свежий элемент, вытесняя самый старый при заполненном окне.
func (s *Set) Add(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max == 0 {
		return
	}
	if len(s.items) == s.max {
		copy(s.items, s.items[1:])
		s.items = s.items[:len(s.items)-1]
	}
	s.items = append(s.items, title)
}

// Contains сообщает, есть ли title в окне (точное совпадение строки).
func (s *Set) Contains(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it == title {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Set) Cap() int {
	return s.max
}

// Items возвращает копию содержимого, начиная с самого свежего заголовка.
func (s *Set) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out
}
