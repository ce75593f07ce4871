package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	superAdmin  = Actor{Subject: "superadmin", SuperAdmin: true}
	coffeeAdmin = Actor{Subject: "coffee.admin", SectorID: 2}
)

func newPayload(name string, sectorID int64) models.MSMEPayload {
	return models.MSMEPayload{
		CompanyName:      name,
		SectorID:         sectorID,
		ContactPerson:    "Ana Reyes",
		ContactNumber:    "+63 917 123 9999",
		Email:            "ana@example.com",
		CityMunicipality: "Alimodian",
	}
}

func TestActorFromClaims(t *testing.T) {
	claims := &models.JWTClaims{PreferredUsername: "coffee.admin", SectorID: 2}
	claims.RealmAccess.Roles = []string{"produkta-admin"}

	actor, ok := ActorFromClaims(claims, "produkta-admin", "produkta-superadmin")
	require.True(t, ok)
	assert.Equal(t, Actor{Subject: "coffee.admin", SectorID: 2}, actor)
	assert.True(t, actor.CanManage(2))
	assert.False(t, actor.CanManage(3))

	claims.RealmAccess.Roles = []string{"produkta-admin", "produkta-superadmin"}
	actor, ok = ActorFromClaims(claims, "produkta-admin", "produkta-superadmin")
	require.True(t, ok)
	assert.True(t, actor.SuperAdmin)
	assert.Zero(t, actor.SectorID)
	assert.True(t, actor.CanManage(3))

	claims.RealmAccess.Roles = []string{"citizen"}
	_, ok = ActorFromClaims(claims, "produkta-admin", "produkta-superadmin")
	assert.False(t, ok)

	_, ok = ActorFromClaims(nil, "produkta-admin", "produkta-superadmin")
	assert.False(t, ok)

	assert.False(t, Actor{}.CanManage(0))
}

func TestValidatePaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{"defaults", "", "", 1, listing.DefaultPageSize, false},
		{"explicit", "3", "25", 3, 25, false},
		{"upper bound", "1", "100", 1, 100, false},
		{"zero page", "0", "", 0, 0, true},
		{"non numeric page", "abc", "", 0, 0, true},
		{"per page too large", "1", "101", 0, 0, true},
		{"per page zero", "1", "0", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage, err := ValidatePaginationParams(tt.page, tt.perPage)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestMSMEServiceList(t *testing.T) {
	svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)
	ctx := context.Background()

	resp, err := svc.List(ctx, listing.Query{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, resp.MSMEs, 10)
	assert.Equal(t, models.PaginationInfo{Page: 2, PerPage: 10, Total: 23, TotalPages: 3}, resp.Pagination)
	assert.Equal(t, int64(23), resp.TotalCount)
	assert.False(t, resp.Empty)

	resp, err = svc.List(ctx, listing.Query{ShowAll: true, Page: 3})
	require.NoError(t, err)
	assert.Len(t, resp.MSMEs, 23)
	assert.Equal(t, models.PaginationInfo{Page: 1, PerPage: 23, Total: 23, TotalPages: 1}, resp.Pagination)

	resp, err = svc.List(ctx, listing.Query{Search: "no such business"})
	require.NoError(t, err)
	assert.True(t, resp.Empty)
	assert.NotNil(t, resp.MSMEs)
	assert.Zero(t, resp.Pagination.TotalPages)
}

func TestMSMEServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin creates in any sector", func(t *testing.T) {
		svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)
		m, err := svc.Create(ctx, superAdmin, newPayload("Alimodian Honey", 4))
		require.NoError(t, err)
		assert.Equal(t, "9171239999", m.ContactNumber)
		assert.Equal(t, "superadmin", m.CreatedBy)
	})

	t.Run("sector admin is scoped", func(t *testing.T) {
		svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)

		_, err := svc.Create(ctx, coffeeAdmin, newPayload("Alimodian Honey", 3))
		assert.ErrorIs(t, err, models.ErrForbiddenSector)

		m, err := svc.Create(ctx, coffeeAdmin, newPayload("Alimodian Roasters", 2))
		require.NoError(t, err)
		assert.Equal(t, "coffee.admin", m.CreatedBy)
	})

	t.Run("unknown sector is a field error", func(t *testing.T) {
		svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)

		_, err := svc.Create(ctx, superAdmin, newPayload("Alimodian Honey", 99))
		var failure *utils.ValidationFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "Sector does not exist", failure.Field("sector_id"))
	})

	t.Run("validation runs before the duplicate check", func(t *testing.T) {
		svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)

		p := newPayload("mountain brew", 2)
		p.Email = ""
		_, err := svc.Create(ctx, superAdmin, p)
		var failure *utils.ValidationFailure
		require.ErrorAs(t, err, &failure)
		assert.NotEmpty(t, failure.Field("email"))

		p.Email = "brew@example.com"
		_, err = svc.Create(ctx, superAdmin, p)
		assert.ErrorIs(t, err, models.ErrDuplicateName)
	})
}

func TestMSMEServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := gateway.NewMemoryWithFixtures()
	svc := NewMSMEService(store, logging.Logger)

	current, err := svc.Get(ctx, 2)
	require.NoError(t, err)

	p := current.Payload()
	p.Description = "Highland coffee"
	updated, err := svc.Update(ctx, coffeeAdmin, 2, p)
	require.NoError(t, err)
	assert.Equal(t, "Highland coffee", updated.Description)

	p.SectorID = 3
	_, err = svc.Update(ctx, coffeeAdmin, 2, p)
	assert.ErrorIs(t, err, models.ErrForbiddenSector)

	coconut, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Update(ctx, coffeeAdmin, 1, coconut.Payload())
	assert.ErrorIs(t, err, models.ErrForbiddenSector)

	_, err = svc.Update(ctx, superAdmin, 999, p)
	assert.ErrorIs(t, err, models.ErrMSMENotFound)

	assert.ErrorIs(t, svc.Delete(ctx, coffeeAdmin, 1), models.ErrForbiddenSector)
	require.NoError(t, svc.Delete(ctx, coffeeAdmin, 2))
	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, models.ErrMSMENotFound)
}

func TestMSMEServiceCheckName(t *testing.T) {
	svc := NewMSMEService(gateway.NewMemoryWithFixtures(), logging.Logger)

	resp, err := svc.CheckName(context.Background(), "  Net's VCO ", 0)
	require.NoError(t, err)
	assert.Equal(t, &models.NameCheckResponse{CompanyName: "Net's VCO", Exists: true}, resp)

	resp, err = svc.CheckName(context.Background(), "Net's VCO", 1)
	require.NoError(t, err)
	assert.False(t, resp.Exists)
}

func TestSectorService(t *testing.T) {
	ctx := context.Background()
	svc := NewSectorService(gateway.NewMemoryWithFixtures(), logging.Logger)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Sectors, 6)

	created, err := svc.Create(ctx, superAdmin, "Cacao")
	require.NoError(t, err)
	_, err = svc.Update(ctx, superAdmin, created.ID, "Cacao and Chocolate")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cacao and Chocolate", got.Name)

	assert.ErrorIs(t, svc.Delete(ctx, superAdmin, 2), models.ErrSectorInUse)
	require.NoError(t, svc.Delete(ctx, superAdmin, created.ID))
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(gateway.NewMemoryWithFixtures(), logging.Logger)

	page, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Accounts, 2)
	assert.Equal(t, models.PaginationInfo{Page: 1, PerPage: 2, Total: 3, TotalPages: 2}, page.Pagination)

	page, err = svc.List(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Accounts)

	deactivated, err := svc.Deactivate(ctx, superAdmin, 2)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
	assert.Equal(t, "coffee.admin", deactivated.Username)
	assert.Equal(t, int64(2), deactivated.SectorID)

	_, err = svc.Create(ctx, superAdmin, models.AdminAccountRequest{Username: "x", Email: "x@iloilo.gov.ph", SectorID: 1})
	var failure *utils.ValidationFailure
	require.ErrorAs(t, err, &failure)
	assert.NotEmpty(t, failure.Field("username"))

	require.NoError(t, svc.Delete(ctx, superAdmin, 3))
	_, err = svc.Get(ctx, 3)
	assert.ErrorIs(t, err, models.ErrAdminNotFound)
}

// countingStore records export calls and can simulate duplicate visits
type countingStore struct {
	*gateway.Memory
	mu        sync.Mutex
	exported  []int64
	duplicate bool
}

func (s *countingStore) RecordExport(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.exported = append(s.exported, id)
	s.mu.Unlock()
	return s.Memory.RecordExport(ctx, id)
}

func (s *countingStore) RecordVisit(ctx context.Context, id int64) error {
	if s.duplicate {
		return gateway.ErrDuplicateVisit
	}
	return s.Memory.RecordVisit(ctx, id)
}

func TestExportServiceEmptySelectionIsNoop(t *testing.T) {
	store := &countingStore{Memory: gateway.NewMemoryWithFixtures()}
	svc := NewExportService(store, export.PDFOptions{Title: "ProdukTa"}, logging.Logger)

	result, ok, err := svc.Export(context.Background(), ExportRequest{Format: export.FormatCSV})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, result)

	result, ok, err = svc.Export(context.Background(), ExportRequest{Format: export.FormatCSV, Selected: []int64{998, 999}})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, result)
	assert.Empty(t, store.exported)
}

func TestExportServiceCSV(t *testing.T) {
	store := &countingStore{Memory: gateway.NewMemoryWithFixtures()}
	svc := NewExportService(store, export.PDFOptions{Title: "ProdukTa"}, logging.Logger)

	result, ok, err := svc.Export(context.Background(), ExportRequest{
		Format:   export.FormatCSV,
		Selected: []int64{2, 1},
		Visible:  []int64{3, 4, 5},
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, export.CSVFilename, result.Filename)
	assert.Equal(t, 2, result.Records)
	lines := strings.Split(string(result.Data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Company Name,Contact Person,Contact Number,Email,Location,Sector", lines[0])
	assert.Equal(t, `"Mountain Brew","Ramon Dela Cruz","+639181112222","mountainbrew@example.com","Alimodian","Coffee"`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `"Net's VCO"`))

	assert.ElementsMatch(t, []int64{1, 2}, store.exported)
	m, err := store.GetMSME(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Exports)
}

func TestExportServicePDFFallsBackToVisible(t *testing.T) {
	store := &countingStore{Memory: gateway.NewMemoryWithFixtures()}
	svc := NewExportService(store, export.PDFOptions{Title: "ProdukTa"}, logging.Logger)

	visible := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	result, ok, err := svc.Export(context.Background(), ExportRequest{Format: export.FormatPDF, Visible: visible})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, export.PDFFilename, result.Filename)
	assert.Equal(t, 9, result.Records)
	assert.Equal(t, 2, result.Pages)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF-"))
	assert.ElementsMatch(t, visible, store.exported)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(gateway.NewMemoryWithFixtures(), export.PDFOptions{}, logging.Logger)

	_, ok, err := svc.Export(context.Background(), ExportRequest{Format: "xlsx", Selected: []int64{1}})
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.False(t, ok)
}

func TestAnalyticsServiceRecordVisit(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Memory: gateway.NewMemoryWithFixtures()}
	svc := NewAnalyticsService(store, logging.Logger)

	before, err := store.GetMSME(ctx, 1)
	require.NoError(t, err)

	recorded, err := svc.RecordVisit(ctx, "10.0.0.1", 1)
	require.NoError(t, err)
	assert.True(t, recorded)

	store.duplicate = true
	recorded, err = svc.RecordVisit(ctx, "10.0.0.1", 1)
	require.NoError(t, err)
	assert.False(t, recorded)

	after, err := store.GetMSME(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.Visits+1, after.Visits)

	store.duplicate = false
	_, err = svc.RecordVisit(ctx, "10.0.0.1", 999)
	assert.ErrorIs(t, err, models.ErrMSMENotFound)
}

func TestAnalyticsServiceDashboardStats(t *testing.T) {
	ctx := context.Background()
	store := gateway.NewMemoryWithFixtures()
	svc := NewAnalyticsService(store, logging.Logger)
	require.NoError(t, store.RecordExport(ctx, 2))

	all, err := svc.DashboardStats(ctx, superAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(23), all.TotalMSMEs)
	assert.Equal(t, int64(6), all.TotalSectors)
	assert.Equal(t, int64(1), all.TotalExports)
	require.Len(t, all.Sectors, 6)
	assert.Equal(t, int64(1), all.Sectors[0].SectorID)

	var visits int64
	for _, s := range all.Sectors {
		visits += s.Visits
	}
	assert.Equal(t, all.TotalVisits, visits)

	scoped, err := svc.DashboardStats(ctx, coffeeAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(4), scoped.TotalMSMEs)
	assert.Equal(t, int64(1), scoped.TotalSectors)
	require.Len(t, scoped.Sectors, 1)
	assert.Equal(t, models.SectorStats{SectorID: 2, SectorName: "Coffee", MSMEs: 4, Visits: scoped.TotalVisits, Exports: 1}, scoped.Sectors[0])
}
