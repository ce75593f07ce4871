package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseIDList decodes an id list passed across a view boundary as a JSON array, e.g. "[1,2,3]".
// An empty string yields an empty list. Duplicates are dropped keeping the first occurrence.
func ParseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDList, err)
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: id %d must be positive", ErrInvalidIDList, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// EncodeIDList is the inverse of ParseIDList
func EncodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}
