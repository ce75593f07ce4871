package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []int64
		wantErr  bool
	}{
		{name: "empty string", raw: "", expected: []int64{}},
		{name: "empty array", raw: "[]", expected: []int64{}},
		{name: "ids keep order", raw: "[3,1,2]", expected: []int64{3, 1, 2}},
		{name: "duplicates dropped", raw: "[2,2,1,2]", expected: []int64{2, 1}},
		{name: "surrounding spaces", raw: "  [5] ", expected: []int64{5}},
		{name: "not json", raw: "1,2", wantErr: true},
		{name: "strings", raw: `["1"]`, wantErr: true},
		{name: "zero id", raw: "[0]", wantErr: true},
		{name: "negative id", raw: "[-4]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := ParseIDList(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIDList)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestEncodeIDList(t *testing.T) {
	assert.Equal(t, "[]", EncodeIDList(nil))
	assert.Equal(t, "[1,2,30]", EncodeIDList([]int64{1, 2, 30}))

	ids, err := ParseIDList(EncodeIDList([]int64{4, 9}))
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)
}
