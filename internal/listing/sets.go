package listing

import (
	"cmp"
	"slices"
	"strings"
)

func normalizeIDs(ids []int64) []int64 {
	out := append([]int64{}, ids...)
	slices.Sort(out)
	return slices.Compact(out)
}

// normalizeNames trims, drops blanks and de-duplicates names ignoring case, matching how the
// location filter compares. The first spelling of a name is kept.
func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" && indexName(out, n) < 0 {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, compareNames)
	return out
}

func compareNames(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func indexName(set []string, name string) int {
	return slices.IndexFunc(set, func(n string) bool { return strings.EqualFold(n, name) })
}

// toggle adds v to the sorted set if absent and removes it otherwise
func toggle(set []int64, v int64) []int64 {
	i, found := slices.BinarySearch(set, v)
	if found {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return slices.Insert(slices.Clone(set), i, v)
}

// toggleName is toggle for names, matching case-insensitively
func toggleName(set []string, name string) []string {
	if i := indexName(set, name); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return normalizeNames(append(slices.Clone(set), name))
}
