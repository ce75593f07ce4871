package listing

import (
	"cmp"
	"slices"

	"github.com/iloilo-msme/produkta/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a sorted copy of records. DirDefault keeps the input order, DirAsc is a stable
// ascending sort and DirDesc is the exact reverse of the DirAsc result.
func Sort(records []models.MSME, sectors map[int64]string, spec SortSpec) []models.MSME {
	out := slices.Clone(records)
	if !spec.Active() {
		return out
	}

	coll := newCollator()
	slices.SortStableFunc(out, func(a, b models.MSME) int {
		return compareColumn(coll, spec.Column, a, b, sectors)
	})
	if spec.Direction == DirDesc {
		slices.Reverse(out)
	}
	return out
}

// newCollator returns an English collator. Collators are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

func compareColumn(coll *collate.Collator, column string, a, b models.MSME, sectors map[int64]string) int {
	switch column {
	case ColumnCompanyName:
		return coll.CompareString(a.CompanyName, b.CompanyName)
	case ColumnContactPerson:
		return coll.CompareString(a.ContactPerson, b.ContactPerson)
	case ColumnEmail:
		return coll.CompareString(a.Email, b.Email)
	case ColumnCity:
		return coll.CompareString(a.CityMunicipality, b.CityMunicipality)
	case ColumnSector:
		return coll.CompareString(sectors[a.SectorID], sectors[b.SectorID])
	case ColumnDTINumber:
		return cmp.Compare(a.DTINumber, b.DTINumber)
	case ColumnYearEstablished:
		return cmp.Compare(a.YearEstablished, b.YearEstablished)
	case ColumnVisits:
		return cmp.Compare(a.Visits, b.Visits)
	}
	return 0
}

// NextDirection cycles default, asc, desc and back to default
func NextDirection(d Direction) Direction {
	switch d {
	case DirAsc:
		return DirDesc
	case DirDesc:
		return DirDefault
	default:
		return DirAsc
	}
}
