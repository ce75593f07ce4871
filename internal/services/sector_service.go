package services

import (
	"context"

	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"go.uber.org/zap"
)

// SectorService manages the sector catalogue
type SectorService struct {
	store  gateway.Store
	logger *logging.SafeLogger
}

// NewSectorService creates a new SectorService instance
func NewSectorService(store gateway.Store, logger *logging.SafeLogger) *SectorService {
	return &SectorService{store: store, logger: logger.Named("sector_service")}
}

// List returns every sector ordered by id
func (s *SectorService) List(ctx context.Context) (*models.SectorListResponse, error) {
	sectors, err := s.store.ListSectors(ctx)
	if err != nil {
		s.logger.Error("failed to list sectors", zap.Error(err))
		return nil, err
	}
	return &models.SectorListResponse{Sectors: sectors}, nil
}

func (s *SectorService) Get(ctx context.Context, id int64) (*models.Sector, error) {
	sector, err := s.store.GetSector(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sector, nil
}

func (s *SectorService) Create(ctx context.Context, actor Actor, name string) (*models.Sector, error) {
	sector, err := s.store.CreateSector(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sector created", zap.Int64("sector_id", sector.ID), zap.String("created_by", actor.Subject))
	return &sector, nil
}

func (s *SectorService) Update(ctx context.Context, actor Actor, id int64, name string) (*models.Sector, error) {
	sector, err := s.store.UpdateSector(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sector renamed", zap.Int64("sector_id", id), zap.String("updated_by", actor.Subject))
	return &sector, nil
}

// Delete removes a sector no MSME refers to
func (s *SectorService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.store.DeleteSector(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sector deleted", zap.Int64("sector_id", id), zap.String("deleted_by", actor.Subject))
	return nil
}
