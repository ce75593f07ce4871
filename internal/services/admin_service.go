package services

import (
	"context"

	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"go.uber.org/zap"
)

// AdminService manages admin account profiles
type AdminService struct {
	store  gateway.Store
	logger *logging.SafeLogger
}

// NewAdminService creates a new AdminService instance
func NewAdminService(store gateway.Store, logger *logging.SafeLogger) *AdminService {
	return &AdminService{store: store, logger: logger.Named("admin_service")}
}

// List returns one page of admin accounts ordered by id
func (s *AdminService) List(ctx context.Context, page, perPage int) (*models.AdminAccountListResponse, error) {
	accounts, err := s.store.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to list admin accounts", zap.Error(err))
		return nil, err
	}

	total := len(accounts)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return &models.AdminAccountListResponse{
		Accounts: accounts[start:end],
		Pagination: models.PaginationInfo{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: listing.TotalPages(total, perPage),
		},
		TotalCount: int64(total),
	}, nil
}

func (s *AdminService) Get(ctx context.Context, id int64) (*models.AdminAccount, error) {
	a, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminService) Create(ctx context.Context, actor Actor, req models.AdminAccountRequest) (*models.AdminAccount, error) {
	a, err := s.store.CreateAdmin(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin account created",
		zap.Int64("admin_id", a.ID),
		zap.String("role", a.Role),
		zap.String("email", observability.MaskEmail(a.Email)),
		zap.String("created_by", actor.Subject))
	return &a, nil
}

func (s *AdminService) Update(ctx context.Context, actor Actor, id int64, req models.AdminAccountRequest) (*models.AdminAccount, error) {
	a, err := s.store.UpdateAdmin(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin account updated", zap.Int64("admin_id", id), zap.String("updated_by", actor.Subject))
	return &a, nil
}

// Deactivate keeps the profile but marks it inactive
func (s *AdminService) Deactivate(ctx context.Context, actor Actor, id int64) (*models.AdminAccount, error) {
	current, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	inactive := false
	return s.Update(ctx, actor, id, models.AdminAccountRequest{
		Username: current.Username,
		Email:    current.Email,
		FullName: current.FullName,
		Role:     current.Role,
		SectorID: current.SectorID,
		Active:   &inactive,
	})
}

func (s *AdminService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.store.DeleteAdmin(ctx, id); err != nil {
		return err
	}
	s.logger.Info("admin account deleted", zap.Int64("admin_id", id), zap.String("deleted_by", actor.Subject))
	return nil
}
