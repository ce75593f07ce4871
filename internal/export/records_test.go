package export

import (
	"testing"

	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMSMEs() []models.MSME {
	return []models.MSME{
		{ID: 1, CompanyName: "Net's VCO", ContactPerson: "Nette Santos", ContactNumber: "9171234567", Email: "nets@example.com", SectorID: 1, Barangay: "Poblacion", CityMunicipality: "Lemery", Province: "Iloilo"},
		{ID: 2, CompanyName: "Mountain Brew", ContactPerson: "Ramon Dela Cruz", ContactNumber: "9181112222", Email: "brew@example.com", SectorID: 2, CityMunicipality: "Alimodian", Province: "Iloilo"},
		{ID: 3, CompanyName: "Bamboo \"Best\" Crafts", ContactPerson: "Joy, Jr.", ContactNumber: "9193334444", Email: "joy@example.com", SectorID: 3, CityMunicipality: "Janiuay", Province: "Iloilo"},
	}
}

var fixtureSectors = map[int64]string{1: "Coconut", 2: "Coffee", 3: "Bamboo"}

func recordIDs(msmes []models.MSME) []int64 {
	out := make([]int64, 0, len(msmes))
	for _, m := range msmes {
		out = append(out, m.ID)
	}
	return out
}

func TestResolve(t *testing.T) {
	all := fixtureMSMEs()

	tests := []struct {
		name     string
		selected []int64
		visible  []int64
		expected []int64
	}{
		{name: "selection wins", selected: []int64{3, 1}, visible: []int64{1, 2, 3}, expected: []int64{3, 1}},
		{name: "visible fallback", selected: nil, visible: []int64{2, 1}, expected: []int64{2, 1}},
		{name: "unknown ids skipped", selected: []int64{9, 2, 7}, expected: []int64{2}},
		{name: "duplicates dropped", selected: []int64{2, 2}, expected: []int64{2}},
		{name: "nothing selected or visible", expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.selected, tt.visible, all)
			assert.Equal(t, tt.expected, recordIDs(got))
		})
	}
}

func TestProject(t *testing.T) {
	records := Project(fixtureMSMEs(), fixtureSectors)
	require.Len(t, records, 3)

	assert.Equal(t, Record{
		ID:            1,
		CompanyName:   "Net's VCO",
		ContactPerson: "Nette Santos",
		ContactNumber: "+639171234567",
		Email:         "nets@example.com",
		Location:      "Lemery",
		Sector:        "Coconut",
		Address:       "Poblacion, Lemery, Iloilo",
	}, records[0])
	assert.Equal(t, "Alimodian, Iloilo", records[1].Address)
}

func TestPages(t *testing.T) {
	build := func(n int) []Record {
		out := make([]Record, n)
		for i := range out {
			out[i].ID = int64(i + 1)
		}
		return out
	}

	tests := []struct {
		count    int
		expected []int
	}{
		{0, []int{}},
		{1, []int{1}},
		{8, []int{8}},
		{9, []int{8, 1}},
		{17, []int{8, 8, 1}},
		{24, []int{8, 8, 8}},
	}

	for _, tt := range tests {
		pages := Pages(build(tt.count), RecordsPerPage)
		sizes := []int{}
		var joined []int64
		for _, p := range pages {
			sizes = append(sizes, len(p))
			for _, r := range p {
				joined = append(joined, r.ID)
			}
		}
		assert.Equal(t, tt.expected, sizes, "count=%d", tt.count)
		assert.Len(t, joined, tt.count)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, CSVFilename, f.Filename())

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, PDFFilename, f.Filename())
	assert.Equal(t, PDFContentType, f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}
