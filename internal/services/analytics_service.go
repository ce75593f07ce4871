package services

import (
	"context"
	"errors"
	"sort"

	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"go.uber.org/zap"
)

// AnalyticsService records visits and builds dashboard counts
type AnalyticsService struct {
	store  gateway.Store
	logger *logging.SafeLogger
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(store gateway.Store, logger *logging.SafeLogger) *AnalyticsService {
	return &AnalyticsService{store: store, logger: logger.Named("analytics_service")}
}

// RecordVisit counts a detail page visit. recorded is false when the visit was a duplicate
// from the same client.
func (s *AnalyticsService) RecordVisit(ctx context.Context, client string, id int64) (recorded bool, err error) {
	err = s.store.RecordVisit(gateway.WithClient(ctx, client), id)
	switch {
	case err == nil:
		observability.VisitsRecorded.WithLabelValues("recorded").Inc()
		return true, nil
	case errors.Is(err, gateway.ErrDuplicateVisit):
		observability.VisitsRecorded.WithLabelValues("duplicate").Inc()
		return false, nil
	case errors.Is(err, models.ErrMSMENotFound):
		return false, err
	default:
		observability.VisitsRecorded.WithLabelValues("error").Inc()
		s.logger.Error("failed to record visit", zap.Int64("msme_id", id), zap.Error(err))
		return false, err
	}
}

// RecordExport counts one record included in an export made outside this service,
// e.g. a client that rendered the file itself
func (s *AnalyticsService) RecordExport(ctx context.Context, id int64) error {
	if err := s.store.RecordExport(ctx, id); err != nil {
		if !errors.Is(err, models.ErrMSMENotFound) {
			s.logger.Error("failed to record export", zap.Int64("msme_id", id), zap.Error(err))
		}
		return err
	}
	observability.ExportedRecords.WithLabelValues("client").Inc()
	return nil
}

// DashboardStats counts MSMEs, visits and exports per sector. Sector admins only see their own sector.
func (s *AnalyticsService) DashboardStats(ctx context.Context, actor Actor) (*models.DashboardStats, error) {
	msmes, err := s.store.AllMSMEs(ctx)
	if err != nil {
		return nil, err
	}
	sectors, err := s.store.ListSectors(ctx)
	if err != nil {
		return nil, err
	}

	bySector := make(map[int64]*models.SectorStats, len(sectors))
	for _, sector := range sectors {
		if !actor.SuperAdmin && sector.ID != actor.SectorID {
			continue
		}
		bySector[sector.ID] = &models.SectorStats{SectorID: sector.ID, SectorName: sector.Name}
	}

	stats := &models.DashboardStats{TotalSectors: int64(len(bySector)), Sectors: []models.SectorStats{}}
	for _, m := range msmes {
		st, ok := bySector[m.SectorID]
		if !ok {
			continue
		}
		st.MSMEs++
		st.Visits += m.Visits
		st.Exports += m.Exports
		stats.TotalMSMEs++
		stats.TotalVisits += m.Visits
		stats.TotalExports += m.Exports
	}

	for _, st := range bySector {
		stats.Sectors = append(stats.Sectors, *st)
	}
	sort.Slice(stats.Sectors, func(i, j int) bool { return stats.Sectors[i].SectorID < stats.Sectors[j].SectorID })
	return stats, nil
}
