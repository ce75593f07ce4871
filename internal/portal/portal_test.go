package portal

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/client"
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/handlers"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T, gw gateway.Gateway) *ListView {
	t.Helper()
	return NewListView(context.Background(), gw, NewState(), logging.Logger)
}

func pageIDs(r listing.Result) []int64 {
	ids := make([]int64, len(r.Items))
	for i, m := range r.Items {
		ids[i] = m.ID
	}
	return ids
}

// failingGateway fails every listing call
type failingGateway struct {
	*gateway.Memory
}

func (failingGateway) ListMSMEs(context.Context, listing.Query, int, int) ([]models.MSME, int, error) {
	return nil, 0, errors.New("connection refused")
}

func (failingGateway) ListSectors(context.Context) ([]models.Sector, error) {
	return nil, errors.New("connection refused")
}

// blockingGateway holds listing calls for the sector filter [1] until released
type blockingGateway struct {
	*gateway.Memory
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *blockingGateway) ListMSMEs(ctx context.Context, q listing.Query, page, size int) ([]models.MSME, int, error) {
	if len(q.Sectors) == 1 && q.Sectors[0] == 1 {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	return g.Memory.ListMSMEs(ctx, q, page, size)
}

func TestListViewRefreshesOnFilterChange(t *testing.T) {
	v := newView(t, gateway.NewMemoryWithFixtures())
	ctx := context.Background()

	require.NoError(t, v.LoadSectors(ctx))
	assert.Len(t, v.State().Sectors(), 6)

	require.NoError(t, v.Refresh(ctx))
	res := v.State().Result()
	assert.Equal(t, 23, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, listing.DefaultPageSize)

	v.Filters.CycleSort("company_name")
	v.Filters.ToggleSector(2)
	res = v.State().Result()
	assert.Equal(t, []int64{20, 14, 2, 10}, pageIDs(res))
	assert.Equal(t, 1, res.Page)
	assert.False(t, res.Empty)
	assert.False(t, v.State().Loading())

	v.Filters.SetSearch("no such business")
	assert.True(t, v.State().Result().Empty)
	assert.Empty(t, v.State().Result().Items)

	v.Filters.Reset()
	assert.Equal(t, 23, v.State().Result().Total)
}

func TestListViewShowAll(t *testing.T) {
	v := newView(t, gateway.NewMemoryWithFixtures())

	v.Filters.SetShowAll(true)
	res := v.State().Result()
	assert.Len(t, res.Items, 23)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
}

func TestListViewFetchErrorFallsBackToEmptyState(t *testing.T) {
	v := newView(t, failingGateway{gateway.NewMemoryWithFixtures()})
	ctx := context.Background()

	require.Error(t, v.LoadSectors(ctx))
	assert.Empty(t, v.State().Sectors())
	assert.Equal(t, NoticeSectorsFailed, v.State().TakeNotice())

	require.Error(t, v.Refresh(ctx))
	snap := v.State().Snapshot()
	assert.True(t, snap.Result.Empty)
	assert.Empty(t, snap.Result.Items)
	assert.Error(t, snap.Err)
	assert.False(t, snap.Loading)
	assert.Equal(t, NoticeListingFailed, v.State().TakeNotice())
	assert.Empty(t, v.State().TakeNotice())
}

func TestListViewDropsStaleResponses(t *testing.T) {
	gw := &blockingGateway{
		Memory:  gateway.NewMemoryWithFixtures(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	v := newView(t, gw)
	v.Filters.OnChange = nil

	v.Filters.ToggleSector(1)
	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background()) }()
	<-gw.started

	// a newer filter state wins even though the older response arrives last
	v.Filters.ToggleSector(1)
	v.Filters.ToggleSector(2)
	require.NoError(t, v.Refresh(context.Background()))

	close(gw.release)
	require.NoError(t, <-done)

	res := v.State().Result()
	assert.Equal(t, 4, res.Total)
	for _, m := range res.Items {
		assert.Equal(t, int64(2), m.SectorID)
	}
}

func TestListViewModeClearsSelection(t *testing.T) {
	v := newView(t, gateway.NewMemoryWithFixtures())

	v.SetMode(ModeExport)
	v.Selection.Add(1)
	v.Selection.Add(2)
	v.SetMode(ModeExport)
	assert.Equal(t, 2, v.Selection.Len())

	v.SetMode(ModeBrowse)
	assert.Zero(t, v.Selection.Len())
	assert.Equal(t, ModeBrowse, v.Mode())
}

func TestSelectAllPage(t *testing.T) {
	v := newView(t, gateway.NewMemoryWithFixtures())
	v.Filters.SetPageSize(5)

	assert.True(t, v.SelectAllPage())
	assert.Equal(t, v.VisibleIDs(), v.Selection.IDs())
	assert.Equal(t, 5, v.Selection.Len())

	assert.False(t, v.SelectAllPage())
	assert.Zero(t, v.Selection.Len())

	assert.False(t, SelectAllPage(listing.NewSelection(), nil))
}

func TestSelectAllFiltered(t *testing.T) {
	v := newView(t, gateway.NewMemoryWithFixtures())
	v.Filters.SetPageSize(2)
	v.Filters.ToggleSector(2)
	require.Len(t, v.VisibleIDs(), 2)

	require.NoError(t, v.SelectAllFiltered(context.Background()))
	assert.ElementsMatch(t, []int64{2, 10, 14, 20}, v.Selection.IDs())

	err := SelectAllFiltered(context.Background(), failingGateway{gateway.NewMemoryWithFixtures()}, listing.DefaultQuery(), v.Selection)
	assert.Error(t, err)
	assert.Equal(t, 4, v.Selection.Len())
}

// remoteGateway serves the fixtures through the HTTP API
func remoteGateway(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	services.InitServices(gateway.NewMemoryWithFixtures(), export.PDFOptions{Title: "ProdukTa"}, logging.Logger)
	router := gin.New()
	handlers.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func TestRemoteListViewLargePages(t *testing.T) {
	v := newView(t, remoteGateway(t))

	v.Filters.SetPageSize(500)
	snap := v.State().Snapshot()
	require.NoError(t, snap.Err)
	assert.Empty(t, v.State().TakeNotice())
	assert.Len(t, snap.Result.Items, 23)
	assert.Equal(t, listing.MaxPageSize, snap.Result.PageSize)
	assert.Equal(t, 1, snap.Result.TotalPages)

	v.Filters.SetShowAll(true)
	snap = v.State().Snapshot()
	require.NoError(t, snap.Err)
	assert.Len(t, snap.Result.Items, 23)
}

func TestRemoteSelectAllFilteredMatchesLocal(t *testing.T) {
	ctx := context.Background()

	local := listing.NewSelection()
	require.NoError(t, SelectAllFiltered(ctx, gateway.NewMemoryWithFixtures(), listing.DefaultQuery(), local))
	require.Equal(t, 23, local.Len())

	v := newView(t, remoteGateway(t))
	v.Filters.SetPageSize(5)
	require.NoError(t, v.SelectAllFiltered(ctx))
	assert.Equal(t, local.IDs(), v.Selection.IDs())
}
