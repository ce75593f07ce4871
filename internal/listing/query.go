package listing

import "strings"

// DefaultPageSize is the page size used when none is requested
const DefaultPageSize = 10

// MaxPageSize is the largest page a paged listing serves. Show-all listings are not bounded.
const MaxPageSize = 100

// Direction is the tri-state sort direction of a column
type Direction string

const (
	DirDefault Direction = "default"
	DirAsc     Direction = "asc"
	DirDesc    Direction = "desc"
)

// Sort columns
const (
	ColumnCompanyName     = "company_name"
	ColumnContactPerson   = "contact_person"
	ColumnEmail           = "email"
	ColumnCity            = "city"
	ColumnSector          = "sector"
	ColumnDTINumber       = "dti_number"
	ColumnYearEstablished = "year_established"
	ColumnVisits          = "visits"
)

var sortColumns = map[string]struct{}{
	ColumnCompanyName:     {},
	ColumnContactPerson:   {},
	ColumnEmail:           {},
	ColumnCity:            {},
	ColumnSector:          {},
	ColumnDTINumber:       {},
	ColumnYearEstablished: {},
	ColumnVisits:          {},
}

// IsSortColumn reports whether column can be sorted on
func IsSortColumn(column string) bool {
	_, ok := sortColumns[column]
	return ok
}

// ParseDirection maps user input to a Direction. Unknown values fall back to DirDefault.
func ParseDirection(s string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirAsc:
		return DirAsc
	case DirDesc:
		return DirDesc
	default:
		return DirDefault
	}
}

// SortSpec is the single active sort column
type SortSpec struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether s reorders records
func (s SortSpec) Active() bool {
	return IsSortColumn(s.Column) && (s.Direction == DirAsc || s.Direction == DirDesc)
}

// Query is the filter, sort and pagination state of one view
type Query struct {
	Sectors   []int64  `json:"sectors,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Search    string   `json:"search,omitempty"`
	Sort      SortSpec `json:"sort"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
	ShowAll   bool     `json:"show_all"`
}

// DefaultQuery returns the state of a freshly opened view
func DefaultQuery() Query {
	return Query{
		Sectors:   []int64{},
		Locations: []string{},
		Sort:      SortSpec{Direction: DirDefault},
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// Normalized returns a copy with deduplicated sorted sets and valid paging values
func (q Query) Normalized() Query {
	q.Sectors = normalizeIDs(q.Sectors)
	q.Locations = normalizeNames(q.Locations)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.Sort.Direction == "" {
		q.Sort.Direction = DirDefault
	}
	return q
}

// Clone returns a deep copy of q
func (q Query) Clone() Query {
	q.Sectors = append([]int64{}, q.Sectors...)
	q.Locations = append([]string{}, q.Locations...)
	return q
}
