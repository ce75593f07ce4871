package listing

import (
	"slices"
	"testing"

	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/stretchr/testify/assert"
)

var allColumns = []string{
	ColumnCompanyName,
	ColumnContactPerson,
	ColumnEmail,
	ColumnCity,
	ColumnSector,
	ColumnDTINumber,
	ColumnYearEstablished,
	ColumnVisits,
}

func TestSort_DescIsReverseOfAsc(t *testing.T) {
	records := generatedRecords(37)

	for _, column := range allColumns {
		t.Run(column, func(t *testing.T) {
			asc := ids(Sort(records, testSectors, SortSpec{Column: column, Direction: DirAsc}))
			desc := ids(Sort(records, testSectors, SortSpec{Column: column, Direction: DirDesc}))

			reversed := slices.Clone(asc)
			slices.Reverse(reversed)
			assert.Equal(t, reversed, desc)
		})
	}
}

func TestSort_AscIsStable(t *testing.T) {
	records := generatedRecords(30)

	for _, column := range allColumns {
		t.Run(column, func(t *testing.T) {
			sorted := Sort(records, testSectors, SortSpec{Column: column, Direction: DirAsc})
			coll := newCollator()
			for i := 1; i < len(sorted); i++ {
				c := compareColumn(coll, column, sorted[i-1], sorted[i], testSectors)
				assert.LessOrEqual(t, c, 0)
				// ties keep filter order, which is ascending id in the fixture
				if c == 0 {
					assert.Less(t, sorted[i-1].ID, sorted[i].ID)
				}
			}
		})
	}
}

func TestSort_DefaultKeepsOrder(t *testing.T) {
	records := generatedRecords(12)

	assert.Equal(t, ids(records), ids(Sort(records, testSectors, SortSpec{Column: ColumnCompanyName, Direction: DirDefault})))
	assert.Equal(t, ids(records), ids(Sort(records, testSectors, SortSpec{Column: "unknown", Direction: DirAsc})))
}

func TestSort_LocaleAwareText(t *testing.T) {
	records := []models.MSME{
		{ID: 1, CompanyName: "bravo"},
		{ID: 2, CompanyName: "Alpha"},
		{ID: 3, CompanyName: "Ñiños Bakery"},
		{ID: 4, CompanyName: "charlie"},
		{ID: 5, CompanyName: "Niña Crafts"},
	}

	sorted := Sort(records, testSectors, SortSpec{Column: ColumnCompanyName, Direction: DirAsc})

	assert.Equal(t, []int64{2, 1, 4, 5, 3}, ids(sorted))
}

func TestSort_NumericColumns(t *testing.T) {
	records := []models.MSME{
		{ID: 1, DTINumber: 100},
		{ID: 2, DTINumber: 9},
		{ID: 3, DTINumber: 20},
	}

	sorted := Sort(records, testSectors, SortSpec{Column: ColumnDTINumber, Direction: DirAsc})
	assert.Equal(t, []int64{2, 3, 1}, ids(sorted))
}

func TestSort_SectorUsesDisplayName(t *testing.T) {
	records := []models.MSME{
		{ID: 1, SectorID: sectorCoconut},
		{ID: 2, SectorID: sectorCoffee},
		{ID: 3, SectorID: sectorBamboo},
	}

	sorted := Sort(records, testSectors, SortSpec{Column: ColumnSector, Direction: DirAsc})
	assert.Equal(t, []int64{3, 1, 2}, ids(sorted))
}

func TestNextDirection(t *testing.T) {
	assert.Equal(t, DirAsc, NextDirection(DirDefault))
	assert.Equal(t, DirDesc, NextDirection(DirAsc))
	assert.Equal(t, DirDefault, NextDirection(DirDesc))
	assert.Equal(t, DirAsc, NextDirection(""))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirAsc, ParseDirection("ASC"))
	assert.Equal(t, DirDesc, ParseDirection(" desc "))
	assert.Equal(t, DirDefault, ParseDirection("sideways"))
	assert.Equal(t, DirDefault, ParseDirection(""))
}
