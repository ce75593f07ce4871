package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSector_GetNormalizedName(t *testing.T) {
	s := &Sector{Name: "  Coffee  "}
	assert.Equal(t, "coffee", s.GetNormalizedName())
}

func TestSector_ValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid name", "Coconut", nil},
		{"empty name", "", ErrInvalidSectorName},
		{"only spaces", "   ", ErrInvalidSectorName},
		{"name too long", strings.Repeat("a", 101), ErrSectorNameTooLong},
		{"name exactly 100 chars", strings.Repeat("a", 100), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Sector{Name: tt.input}
			err := s.ValidateName()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSectorNames(t *testing.T) {
	names := SectorNames([]Sector{{ID: 1, Name: "Coconut"}, {ID: 2, Name: "Coffee"}})
	assert.Equal(t, map[int64]string{1: "Coconut", 2: "Coffee"}, names)
}
