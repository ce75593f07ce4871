package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func memoryStore(t *testing.T) Store {
	return NewMemoryWithFixtures()
}

func sqliteStore(t *testing.T) Store {
	store, err := NewSQLite(":memory:", logging.Logger)
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background(), Fixtures()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newPayload(name string, sectorID int64) models.MSMEPayload {
	return models.MSMEPayload{
		CompanyName:       name,
		Description:       "Handmade goods",
		SectorID:          sectorID,
		ContactPerson:     "Ana Reyes",
		ContactNumber:     "0917-123-9999",
		Email:             "Ana@Example.com",
		CityMunicipality:  "Oton",
		MajorProductLines: []string{"baskets"},
	}
}

func msmeIDs(records []models.MSME) []int64 {
	out := make([]int64, 0, len(records))
	for _, m := range records {
		out = append(out, m.ID)
	}
	return out
}

func TestStores(t *testing.T) {
	factories := map[string]storeFactory{
		"memory": memoryStore,
		"sqlite": sqliteStore,
	}
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			runStoreContract(t, factory)
		})
	}
}

func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := WithActor(context.Background(), "coffee.admin")

	t.Run("list pushes sector filter", func(t *testing.T) {
		store := newStore(t)
		items, total, err := store.ListMSMEs(ctx, listing.Query{Sectors: []int64{2}}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, []int64{2, 10, 14, 20}, msmeIDs(items))
	})

	t.Run("list matches locations case insensitively", func(t *testing.T) {
		store := newStore(t)
		items, total, err := store.ListMSMEs(ctx, listing.Query{Locations: []string{"alimodian"}}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, []int64{2, 20}, msmeIDs(items))
	})

	t.Run("list searches and pages", func(t *testing.T) {
		store := newStore(t)

		items, total, err := store.ListMSMEs(ctx, listing.Query{Search: "HABLON"}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []int64{4}, msmeIDs(items))

		items, total, err = store.ListMSMEs(ctx, listing.Query{}, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, 23, total)
		assert.Equal(t, []int64{21, 22, 23}, msmeIDs(items))

		items, _, err = store.ListMSMEs(ctx, listing.Query{}, 4, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("list sorts by company name", func(t *testing.T) {
		store := newStore(t)
		q := listing.Query{Sectors: []int64{2}, Sort: listing.SortSpec{Column: listing.ColumnCompanyName, Direction: listing.DirAsc}}
		items, _, err := store.ListMSMEs(ctx, q, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{20, 14, 2, 10}, msmeIDs(items))
	})

	t.Run("get missing msme", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetMSME(ctx, 999)
		assert.ErrorIs(t, err, models.ErrMSMENotFound)
	})

	t.Run("create normalizes and records actor", func(t *testing.T) {
		store := newStore(t)
		m, err := store.CreateMSME(ctx, newPayload("Oton Baskets", 5))
		require.NoError(t, err)

		assert.Equal(t, int64(24), m.ID)
		assert.Equal(t, "9171239999", m.ContactNumber)
		assert.Equal(t, "ana@example.com", m.Email)
		assert.Equal(t, models.DefaultProvince, m.Province)
		assert.Equal(t, "coffee.admin", m.CreatedBy)
		assert.Zero(t, m.Visits)

		got, err := store.GetMSME(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Oton Baskets", got.CompanyName)
		assert.Equal(t, []string{"baskets"}, got.MajorProductLines)
		assert.Equal(t, []string{}, got.ProductGallery)
	})

	t.Run("create rejects invalid payload", func(t *testing.T) {
		store := newStore(t)
		p := newPayload("", 5)
		p.Email = "not-an-email"

		_, err := store.CreateMSME(ctx, p)
		var failure *utils.ValidationFailure
		require.ErrorAs(t, err, &failure)
		assert.NotEmpty(t, failure.Field("company_name"))
		assert.NotEmpty(t, failure.Field("email"))

		_, total, err := store.ListMSMEs(ctx, listing.Query{}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 23, total)
	})

	t.Run("create rejects duplicate name and unknown sector", func(t *testing.T) {
		store := newStore(t)

		_, err := store.CreateMSME(ctx, newPayload("  MOUNTAIN   brew ", 2))
		assert.ErrorIs(t, err, models.ErrDuplicateName)

		_, err = store.CreateMSME(ctx, newPayload("Fresh Name", 99))
		assert.ErrorIs(t, err, models.ErrSectorNotFound)
	})

	t.Run("update keeps own name and counters", func(t *testing.T) {
		store := newStore(t)
		before, err := store.GetMSME(ctx, 2)
		require.NoError(t, err)

		p := before.Payload()
		p.Description = "Now with cold brew"
		updated, err := store.UpdateMSME(ctx, 2, p)
		require.NoError(t, err)
		assert.Equal(t, "Now with cold brew", updated.Description)
		assert.Equal(t, before.Visits, updated.Visits)
		assert.Equal(t, before.CreatedBy, updated.CreatedBy)

		p.CompanyName = "Net's VCO"
		_, err = store.UpdateMSME(ctx, 2, p)
		assert.ErrorIs(t, err, models.ErrDuplicateName)

		_, err = store.UpdateMSME(ctx, 999, p)
		assert.ErrorIs(t, err, models.ErrMSMENotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.DeleteMSME(ctx, 1))

		_, err := store.GetMSME(ctx, 1)
		assert.ErrorIs(t, err, models.ErrMSMENotFound)
		assert.ErrorIs(t, store.DeleteMSME(ctx, 1), models.ErrMSMENotFound)
	})

	t.Run("analytics counters", func(t *testing.T) {
		store := newStore(t)
		before, err := store.GetMSME(ctx, 2)
		require.NoError(t, err)

		require.NoError(t, store.RecordVisit(ctx, 2))
		require.NoError(t, store.RecordExport(ctx, 2))
		require.NoError(t, store.RecordExport(ctx, 2))

		after, err := store.GetMSME(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, before.Visits+1, after.Visits)
		assert.Equal(t, before.Exports+2, after.Exports)

		assert.ErrorIs(t, store.RecordVisit(ctx, 999), models.ErrMSMENotFound)
		assert.ErrorIs(t, store.RecordExport(ctx, 999), models.ErrMSMENotFound)
	})

	t.Run("company name exists", func(t *testing.T) {
		store := newStore(t)

		exists, err := store.CompanyNameExists(ctx, "  MOUNTAIN   brew ", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.CompanyNameExists(ctx, "Mountain Brew", 2)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = store.CompanyNameExists(ctx, "Nobody Here", 0)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("sectors", func(t *testing.T) {
		store := newStore(t)

		sectors, err := store.ListSectors(ctx)
		require.NoError(t, err)
		require.Len(t, sectors, 6)
		assert.Equal(t, "Bamboo", sectors[0].Name)

		created, err := store.CreateSector(ctx, "  Cacao ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, "Cacao", created.Name)

		_, err = store.CreateSector(ctx, "coffee")
		assert.ErrorIs(t, err, models.ErrSectorNameExists)
		_, err = store.CreateSector(ctx, "   ")
		assert.ErrorIs(t, err, models.ErrInvalidSectorName)

		renamed, err := store.UpdateSector(ctx, 1, "Bamboo Crafts")
		require.NoError(t, err)
		assert.Equal(t, "Bamboo Crafts", renamed.Name)

		_, err = store.UpdateSector(ctx, 1, "Coffee")
		assert.ErrorIs(t, err, models.ErrSectorNameExists)
		_, err = store.UpdateSector(ctx, 99, "Other")
		assert.ErrorIs(t, err, models.ErrSectorNotFound)

		assert.ErrorIs(t, store.DeleteSector(ctx, 2), models.ErrSectorInUse)
		require.NoError(t, store.DeleteSector(ctx, created.ID))
		assert.ErrorIs(t, store.DeleteSector(ctx, created.ID), models.ErrSectorNotFound)

		got, err := store.GetSector(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Bamboo Crafts", got.Name)
	})

	t.Run("admin accounts", func(t *testing.T) {
		store := newStore(t)

		admins, err := store.ListAdmins(ctx)
		require.NoError(t, err)
		assert.Len(t, admins, 3)

		created, err := store.CreateAdmin(ctx, models.AdminAccountRequest{
			Username: "Bamboo.Admin",
			Email:    "bamboo@iloilo.gov.ph",
			FullName: "Bamboo Sector Admin",
			SectorID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), created.ID)
		assert.Equal(t, "bamboo.admin", created.Username)
		assert.Equal(t, models.RoleAdmin, created.Role)
		assert.True(t, created.Active)

		_, err = store.CreateAdmin(ctx, models.AdminAccountRequest{Username: "coffee.admin", Email: "x@iloilo.gov.ph", SectorID: 2})
		assert.ErrorIs(t, err, models.ErrUsernameExists)
		_, err = store.CreateAdmin(ctx, models.AdminAccountRequest{Username: "ghost", Email: "ghost@iloilo.gov.ph", SectorID: 99})
		assert.ErrorIs(t, err, models.ErrSectorNotFound)

		inactive := false
		updated, err := store.UpdateAdmin(ctx, created.ID, models.AdminAccountRequest{
			Username: "bamboo.admin",
			Email:    "bamboo@iloilo.gov.ph",
			FullName: "Bamboo Admin",
			SectorID: 1,
			Active:   &inactive,
		})
		require.NoError(t, err)
		assert.False(t, updated.Active)
		assert.Equal(t, "Bamboo Admin", updated.FullName)

		got, err := store.GetAdmin(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		require.NoError(t, store.DeleteAdmin(ctx, created.ID))
		_, err = store.GetAdmin(ctx, created.ID)
		assert.ErrorIs(t, err, models.ErrAdminNotFound)
		assert.ErrorIs(t, store.DeleteAdmin(ctx, created.ID), models.ErrAdminNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestMemorySetClock(t *testing.T) {
	store := NewMemoryWithFixtures()
	at := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return at })

	m, err := store.CreateMSME(context.Background(), newPayload("Clocked Goods", 5))
	require.NoError(t, err)
	assert.Equal(t, at, m.CreatedAt)
	assert.Equal(t, at, m.UpdatedAt)
	assert.Empty(t, m.CreatedBy)
}

func TestMemoryLoadReplacesContent(t *testing.T) {
	store := NewMemoryWithFixtures()
	store.Load(FixtureData{Sectors: []models.Sector{{ID: 10, Name: "Only"}}})

	sectors, err := store.ListSectors(context.Background())
	require.NoError(t, err)
	require.Len(t, sectors, 1)

	all, err := store.AllMSMEs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	created, err := store.CreateSector(context.Background(), "Next")
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ActorFrom(ctx))
	assert.Empty(t, ClientFrom(ctx))

	ctx = WithClient(WithActor(ctx, "superadmin"), "10.0.0.1")
	assert.Equal(t, "superadmin", ActorFrom(ctx))
	assert.Equal(t, "10.0.0.1", ClientFrom(ctx))
}

func TestFixturesAreValid(t *testing.T) {
	data := Fixtures()
	names := make(map[string]bool)
	for _, m := range data.MSMEs {
		assert.NoError(t, utils.ValidateMSMEPayload(m.Payload(), fixtureTime).Err(), m.CompanyName)
		key := models.NormalizedName(m.CompanyName)
		assert.False(t, names[key], "duplicate fixture name %s", m.CompanyName)
		names[key] = true
	}
}
