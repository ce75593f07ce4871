package services

import (
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/logging"
)

// Global service instances used by the HTTP handlers
var (
	StoreInstance            gateway.Store
	MSMEServiceInstance      *MSMEService
	SectorServiceInstance    *SectorService
	AdminServiceInstance     *AdminService
	ExportServiceInstance    *ExportService
	AnalyticsServiceInstance *AnalyticsService
)

// InitServices builds every service over store
func InitServices(store gateway.Store, pdf export.PDFOptions, logger *logging.SafeLogger) {
	StoreInstance = store
	MSMEServiceInstance = NewMSMEService(store, logger)
	SectorServiceInstance = NewSectorService(store, logger)
	AdminServiceInstance = NewAdminService(store, logger)
	ExportServiceInstance = NewExportService(store, pdf, logger)
	AnalyticsServiceInstance = NewAnalyticsService(store, logger)
}
