package listing

import "strings"

// FilterPanel holds the filter state of a view. Every filter change resets the page to 1.
type FilterPanel struct {
	q Query
	// OnChange, when set, is called with the new state after every mutation
	OnChange func(Query)
}

// NewFilterPanel creates a panel starting from q
func NewFilterPanel(q Query) *FilterPanel {
	return &FilterPanel{q: q.Normalized()}
}

// Query returns a copy of the current state
func (p *FilterPanel) Query() Query {
	return p.q.Clone()
}

// ToggleSector adds the sector to the filter when absent and removes it otherwise
func (p *FilterPanel) ToggleSector(id int64) {
	p.q.Sectors = toggle(p.q.Sectors, id)
	p.filterChanged()
}

// ToggleLocation adds the city/municipality to the filter when absent and removes it otherwise
func (p *FilterPanel) ToggleLocation(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.q.Locations = toggleName(p.q.Locations, name)
	p.filterChanged()
}

// SelectAllSectors replaces the sector filter with ids
func (p *FilterPanel) SelectAllSectors(ids []int64) {
	p.q.Sectors = normalizeIDs(ids)
	p.filterChanged()
}

// DeselectAllSectors clears the sector filter
func (p *FilterPanel) DeselectAllSectors() {
	p.q.Sectors = []int64{}
	p.filterChanged()
}

// SetSearch sets the free-text search term
func (p *FilterPanel) SetSearch(term string) {
	p.q.Search = term
	p.filterChanged()
}

// CycleSort advances the direction of column. Switching to another column starts at ascending.
func (p *FilterPanel) CycleSort(column string) {
	if !IsSortColumn(column) {
		return
	}
	if p.q.Sort.Column != column {
		p.q.Sort = SortSpec{Column: column, Direction: DirAsc}
	} else {
		p.q.Sort.Direction = NextDirection(p.q.Sort.Direction)
		if p.q.Sort.Direction == DirDefault {
			p.q.Sort.Column = ""
		}
	}
	p.changed()
}

// SetPage moves to page n
func (p *FilterPanel) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	p.q.Page = n
	p.changed()
}

// SetPageSize changes the page size, capped at MaxPageSize, and returns to the first page
func (p *FilterPanel) SetPageSize(n int) {
	if n < 1 {
		n = DefaultPageSize
	}
	n = min(n, MaxPageSize)
	p.q.PageSize = n
	p.q.Page = 1
	p.changed()
}

// SetShowAll switches between paged and single-page display
func (p *FilterPanel) SetShowAll(showAll bool) {
	p.q.ShowAll = showAll
	p.q.Page = 1
	p.changed()
}

// Reset clears all filter state back to defaults, keeping the page size
func (p *FilterPanel) Reset() {
	size := p.q.PageSize
	p.q = DefaultQuery()
	p.q.PageSize = size
	p.changed()
}

func (p *FilterPanel) filterChanged() {
	p.q.Page = 1
	p.changed()
}

func (p *FilterPanel) changed() {
	if p.OnChange != nil {
		p.OnChange(p.Query())
	}
}
