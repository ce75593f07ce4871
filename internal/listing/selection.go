package listing

// Selection is the set of MSME ids chosen for export. IDs keeps insertion order.
type Selection struct {
	ids   []int64
	index map[int64]struct{}
}

// NewSelection creates a selection holding ids
func NewSelection(ids ...int64) *Selection {
	s := &Selection{index: make(map[int64]struct{})}
	s.SelectAll(ids)
	return s
}

// Toggle selects id when absent and deselects it otherwise. It returns whether id is now selected.
func (s *Selection) Toggle(id int64) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

func (s *Selection) Add(id int64) {
	if s.index == nil {
		s.index = make(map[int64]struct{})
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) Remove(id int64) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *Selection) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the selected ids in selection order
func (s *Selection) IDs() []int64 {
	return append([]int64{}, s.ids...)
}

// SelectAll adds every id in ids
func (s *Selection) SelectAll(ids []int64) {
	for _, id := range ids {
		s.Add(id)
	}
}

// DeselectAll removes every id in ids
func (s *Selection) DeselectAll(ids []int64) {
	for _, id := range ids {
		s.Remove(id)
	}
}

// ContainsAll reports whether every id in ids is selected. It is false for an empty list.
func (s *Selection) ContainsAll(ids []int64) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[int64]struct{})
}

func (s *Selection) Len() int {
	return len(s.ids)
}
