package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_ScenarioD(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	s.Toggle(2)

	selected := s.Toggle(1)

	assert.False(t, selected)
	assert.Equal(t, []int64{2}, s.IDs())
}

func TestSelection_KeepsInsertionOrder(t *testing.T) {
	s := NewSelection(5, 3, 5, 9)

	assert.Equal(t, []int64{5, 3, 9}, s.IDs())
	assert.Equal(t, 3, s.Len())

	s.Remove(3)
	s.Add(3)
	assert.Equal(t, []int64{5, 9, 3}, s.IDs())
}

func TestSelection_SelectAllAndDeselectAll(t *testing.T) {
	s := NewSelection(1)
	s.SelectAll([]int64{2, 3, 1})

	assert.Equal(t, []int64{1, 2, 3}, s.IDs())
	assert.True(t, s.ContainsAll([]int64{1, 3}))
	assert.False(t, s.ContainsAll([]int64{3, 4}))
	assert.False(t, s.ContainsAll(nil))

	s.DeselectAll([]int64{1, 3})
	assert.Equal(t, []int64{2}, s.IDs())
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection(1, 2)
	s.Clear()

	assert.Zero(t, s.Len())
	assert.False(t, s.Contains(1))
	assert.Empty(t, s.IDs())
}

func TestSelection_ZeroValueUsable(t *testing.T) {
	var s Selection
	assert.False(t, s.Contains(1))
	s.Add(1)
	assert.True(t, s.Contains(1))
}

func TestSelection_IDsIsCopy(t *testing.T) {
	s := NewSelection(1, 2)
	got := s.IDs()
	got[0] = 99

	assert.Equal(t, []int64{1, 2}, s.IDs())
}
