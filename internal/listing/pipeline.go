package listing

import (
	"strings"

	"github.com/iloilo-msme/produkta/internal/models"
)

// Result is the page-visible part of a filtered, sorted collection
type Result struct {
	Items      []models.MSME `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	// Empty is set when nothing matches the filters, so views can show an empty state
	Empty bool `json:"empty"`
}

// Run filters, sorts and paginates records. sectors maps sector ids to display names.
func Run(records []models.MSME, sectors map[int64]string, q Query) Result {
	q = q.Normalized()
	filtered := Filter(records, sectors, q)
	sorted := Sort(filtered, sectors, q.Sort)
	return Paginate(sorted, q.Page, q.PageSize, q.ShowAll)
}

// Filter keeps the records matching the sector filter, the location filter and the search term.
// Input order is preserved.
func Filter(records []models.MSME, sectors map[int64]string, q Query) []models.MSME {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.MSME, 0, len(records))
	for _, m := range records {
		if !MatchesSector(m, q.Sectors) || !MatchesLocation(m, q.Locations) {
			continue
		}
		if term != "" && !matchesSearch(m, sectors[m.SectorID], term) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// MatchesSector reports whether m passes the sector filter. An empty filter matches everything.
func MatchesSector(m models.MSME, ids []int64) bool {
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if m.SectorID == id {
			return true
		}
	}
	return false
}

// MatchesLocation reports whether m passes the city/municipality filter
func MatchesLocation(m models.MSME, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	for _, loc := range locations {
		if strings.EqualFold(m.CityMunicipality, loc) {
			return true
		}
	}
	return false
}

// SearchFields returns the texts scanned by the search term, in order
func SearchFields(m models.MSME, sectorName string) []string {
	return []string{m.CompanyName, m.Description, m.ContactPerson, m.Email, sectorName}
}

func matchesSearch(m models.MSME, sectorName, term string) bool {
	for _, field := range SearchFields(m, sectorName) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Paginate slices records into the requested page. Pages past the last one are empty.
func Paginate(records []models.MSME, page, pageSize int, showAll bool) Result {
	total := len(records)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	if records == nil {
		records = []models.MSME{}
	}

	if showAll {
		res := Result{Items: records, Total: total, Page: 1, PageSize: total, Empty: total == 0}
		if total > 0 {
			res.TotalPages = 1
		}
		return res
	}

	res := Result{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
		Empty:      total == 0,
		Items:      []models.MSME{},
	}

	start := (page - 1) * pageSize
	if start >= total {
		return res
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	res.Items = records[start:end]
	return res
}

// TotalPages is ceil(total / pageSize)
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
