package services

import (
	"bytes"
	"context"
	"time"

	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// exportFanOut bounds concurrent RecordExport calls per export
const exportFanOut = 8

// ExportRequest selects what to export. Selected wins over Visible when non-empty.
type ExportRequest struct {
	Format   export.Format
	Selected []int64
	Visible  []int64
}

// ExportResult is a rendered export file
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Records     int
	Pages       int
}

// ExportService renders CSV and PDF exports and records export analytics
type ExportService struct {
	store   gateway.Store
	options export.PDFOptions
	logger  *logging.SafeLogger
	now     func() time.Time
}

// NewExportService creates a new ExportService. opts configures the PDF header.
func NewExportService(store gateway.Store, opts export.PDFOptions, logger *logging.SafeLogger) *ExportService {
	return &ExportService{
		store:   store,
		options: opts,
		logger:  logger.Named("export_service"),
		now:     time.Now,
	}
}

// Export renders the requested records. ok is false when nothing was chosen; no file is produced
// and no analytics are recorded in that case.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (result *ExportResult, ok bool, err error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "export_msmes")
	defer span.End()

	if len(req.Selected) == 0 && len(req.Visible) == 0 {
		return nil, false, nil
	}

	all, err := s.store.AllMSMEs(ctx)
	if err != nil {
		return nil, false, err
	}
	chosen := export.Resolve(req.Selected, req.Visible, all)
	if len(chosen) == 0 {
		return nil, false, nil
	}

	sectors, err := s.store.ListSectors(ctx)
	if err != nil {
		return nil, false, err
	}
	records := export.Project(chosen, models.SectorNames(sectors))

	var buf bytes.Buffer
	pages := 1
	switch req.Format {
	case export.FormatCSV:
		err = export.WriteCSV(&buf, records)
	case export.FormatPDF:
		opts := s.options
		opts.GeneratedAt = s.now()
		pages, err = export.WritePDF(&buf, records, opts)
	default:
		return nil, false, models.ErrUnsupportedFormat
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"format": string(req.Format)})
		s.logger.Error("failed to render export", zap.String("format", string(req.Format)), zap.Error(err))
		return nil, false, err
	}

	s.recordExports(ctx, chosen)

	observability.ExportsTotal.WithLabelValues(string(req.Format)).Inc()
	observability.ExportedRecords.WithLabelValues(string(req.Format)).Add(float64(len(records)))
	utils.AddSpanAttribute(span, "export.records", len(records))

	return &ExportResult{
		Filename:    req.Format.Filename(),
		ContentType: req.Format.ContentType(),
		Data:        buf.Bytes(),
		Records:     len(records),
		Pages:       pages,
	}, true, nil
}

// recordExports bumps the export counter of every exported MSME. Failures are logged only.
func (s *ExportService) recordExports(ctx context.Context, msmes []models.MSME) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportFanOut)
	for _, m := range msmes {
		id := m.ID
		g.Go(func() error {
			if err := s.store.RecordExport(gctx, id); err != nil {
				s.logger.Warn("failed to record export", zap.Int64("msme_id", id), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
