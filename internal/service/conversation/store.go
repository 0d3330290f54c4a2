package conversation

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

var ErrInvalidTurn = errors.New("invalid turn")

// Store — история диалога одной сессии. Только добавление в конец и полная очистка.
type Store struct {
	mu    sync.Mutex
	turns []Turn
}

func NewStore() *Store {
	return &Store{turns: make([]Turn, 0, 16)}
}

// Append добавляет реплику в конец истории.
func (s *Store) Append(t Turn) error {
	if !t.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, t.Role)
	}
	if t.Image != nil && len(t.Image.Data) == 0 {
		return fmt.Errorf("%w: empty image", ErrInvalidTurn)
	}
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	return nil
}

// Clear очищает историю. Повторный вызов ничего не меняет.
func (s *Store) Clear() {
	s.mu.Lock()
	// новый срез, чтобы уже выданные итераторы не увидели перезапись
	s.turns = make([]Turn, 0, 16)
	s.mu.Unlock()
}

// All возвращает ленивый перезапускаемый обход в порядке добавления.
// Каждый проход видит историю на момент своего начала.
func (s *Store) All() iter.Seq[Turn] {
	return func(yield func(Turn) bool) {
		s.mu.Lock()
		snapshot := s.turns[:len(s.turns):len(s.turns)]
		s.mu.Unlock()
		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	l := len(s.turns)
	s.mu.Unlock()
	return l
}
