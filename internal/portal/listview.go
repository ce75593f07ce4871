package portal

import (
	"context"
	"errors"

	"github.com/iloilo-msme/produkta/internal/client"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"go.uber.org/zap"
)

// Notices shown when a fetch fails and the view falls back to an empty state
const (
	NoticeListingFailed = "Could not load businesses. Please try again."
	NoticeSectorsFailed = "Could not load sectors. Please try again."
)

// Mode is what the list view is used for
type Mode int

const (
	ModeBrowse Mode = iota
	ModeExport
)

// ListView binds a filter panel and an export selection to a gateway. Every filter change
// refreshes the listing; only the newest refresh may update the shared state.
type ListView struct {
	gw        gateway.Gateway
	state     *State
	Filters   *listing.FilterPanel
	Selection *listing.Selection

	ctx    context.Context
	mode   Mode
	latest client.Latest
	logger *logging.SafeLogger
}

// NewListView creates a list view over gw. ctx bounds the refreshes triggered by filter changes.
func NewListView(ctx context.Context, gw gateway.Gateway, state *State, logger *logging.SafeLogger) *ListView {
	v := &ListView{
		gw:        gw,
		state:     state,
		Filters:   listing.NewFilterPanel(listing.DefaultQuery()),
		Selection: listing.NewSelection(),
		ctx:       ctx,
		logger:    logger.Named("list_view"),
	}
	v.Filters.OnChange = func(listing.Query) {
		_ = v.Refresh(v.ctx)
	}
	return v
}

// State returns the shared state the view writes into
func (v *ListView) State() *State {
	return v.state
}

// LoadSectors fetches the sector list used by the filter panel
func (v *ListView) LoadSectors(ctx context.Context) error {
	sectors, err := v.gw.ListSectors(ctx)
	if err != nil {
		v.logger.Error("failed to load sectors", zap.Error(err))
		v.state.failSectors(err, NoticeSectorsFailed)
		return err
	}
	v.state.setSectors(sectors)
	return nil
}

// Refresh fetches the page described by the filter panel. A refresh overtaken by a newer one
// leaves the state alone and returns nil.
func (v *ListView) Refresh(ctx context.Context) error {
	q := v.Filters.Query().Normalized()
	v.state.setLoading(true)

	res, err := client.Run(ctx, &v.latest, func(ctx context.Context) (listing.Result, error) {
		return v.fetch(ctx, q)
	})
	switch {
	case errors.Is(err, client.ErrSuperseded):
		return nil
	case err != nil:
		v.logger.Error("failed to load msmes", zap.Error(err))
		v.state.fail(q, err, NoticeListingFailed)
		return err
	}
	v.state.setResult(res)
	return nil
}

func (v *ListView) fetch(ctx context.Context, q listing.Query) (listing.Result, error) {
	items, total, err := v.gw.ListMSMEs(ctx, q, q.Page, q.PageSize)
	if err != nil {
		return listing.Result{}, err
	}
	if items == nil {
		items = []models.MSME{}
	}

	res := listing.Result{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: listing.TotalPages(total, q.PageSize),
		Empty:      total == 0,
	}
	if q.ShowAll {
		res.Page = 1
		res.PageSize = total
		res.TotalPages = min(total, 1)
	}
	return res, nil
}

// Stop cancels an in-flight refresh
func (v *ListView) Stop() {
	v.latest.Stop()
	v.state.setLoading(false)
}

func (v *ListView) Mode() Mode {
	return v.mode
}

// SetMode switches between browsing and exporting. Changing mode clears the selection.
func (v *ListView) SetMode(m Mode) {
	if m != v.mode {
		v.Selection.Clear()
	}
	v.mode = m
}

// VisibleIDs returns the ids on the current page in display order
func (v *ListView) VisibleIDs() []int64 {
	items := v.state.Result().Items
	ids := make([]int64, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	return ids
}

// SelectAllPage toggles the selection of the current page, the admin table select-all.
// It reports whether the page ended up selected.
func (v *ListView) SelectAllPage() bool {
	return SelectAllPage(v.Selection, v.state.Result().Items)
}

// SelectAllFiltered selects every record matching the filters, across all pages. This is the
// guest export select-all.
func (v *ListView) SelectAllFiltered(ctx context.Context) error {
	return SelectAllFiltered(ctx, v.gw, v.Filters.Query(), v.Selection)
}

// SelectAllPage selects the ids of page, or deselects them when all are already selected
func SelectAllPage(sel *listing.Selection, page []models.MSME) bool {
	ids := make([]int64, len(page))
	for i, m := range page {
		ids[i] = m.ID
	}
	if len(ids) > 0 && sel.ContainsAll(ids) {
		sel.DeselectAll(ids)
		return false
	}
	sel.SelectAll(ids)
	return len(ids) > 0
}

// SelectAllFiltered adds every record matching q to sel in listing order
func SelectAllFiltered(ctx context.Context, gw gateway.Gateway, q listing.Query, sel *listing.Selection) error {
	q = q.Normalized()
	q.ShowAll = true
	items, _, err := gw.ListMSMEs(ctx, q, 1, q.PageSize)
	if err != nil {
		return err
	}
	ids := make([]int64, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	sel.SelectAll(ids)
	return nil
}
