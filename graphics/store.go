package graphics

// store maps entity ids to proxies
type store[T any] struct {
	items map[string]T
}

func newStore[T any]() *store[T] {
	return &store[T]{items: make(map[string]T)}
}

func (s *store[T]) get(id string) (T, bool) {
	v, ok := s.items[id]
	return v, ok
}

func (s *store[T]) insert(id string, v T) {
	s.items[id] = v
}

// remove deletes an entry; removing an absent id is a no-op
func (s *store[T]) remove(id string) (T, bool) {
	v, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	return v, ok
}

func (s *store[T]) forEach(fn func(id string, v T)) {
	for id, v := range s.items {
		fn(id, v)
	}
}

// clear hands every entry to detach, if given, and empties the store
func (s *store[T]) clear(detach func(v T)) {
	if detach != nil {
		for _, v := range s.items {
			detach(v)
		}
	}
	clear(s.items)
}

func (s *store[T]) len() int {
	return len(s.items)
}
