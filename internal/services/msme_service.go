package services

import (
	"context"
	"errors"
	"time"

	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.uber.org/zap"
)

// MSMEService handles directory listing and MSME administration
type MSMEService struct {
	store  gateway.Store
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewMSMEService creates a new MSMEService instance
func NewMSMEService(store gateway.Store, logger *logging.SafeLogger) *MSMEService {
	return &MSMEService{
		store:  store,
		logger: logger.Named("msme_service"),
		now:    time.Now,
	}
}

// List runs the listing pipeline for q and wraps the page with pagination metadata
func (s *MSMEService) List(ctx context.Context, q listing.Query) (*models.MSMEListResponse, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "list_msmes")
	defer span.End()

	q = q.Normalized()
	items, total, err := s.store.ListMSMEs(ctx, q, q.Page, q.PageSize)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		s.logger.Error("failed to list msmes", zap.Error(err))
		return nil, err
	}

	pagination := models.PaginationInfo{
		Page:       q.Page,
		PerPage:    q.PageSize,
		Total:      total,
		TotalPages: listing.TotalPages(total, q.PageSize),
	}
	if q.ShowAll {
		pagination.Page = 1
		pagination.PerPage = total
		pagination.TotalPages = min(total, 1)
	}

	utils.AddSpanAttribute(span, "msmes.total", total)
	return &models.MSMEListResponse{
		MSMEs:      items,
		Pagination: pagination,
		TotalCount: int64(total),
		Empty:      total == 0,
	}, nil
}

// Get returns a single MSME
func (s *MSMEService) Get(ctx context.Context, id int64) (*models.MSME, error) {
	m, err := s.store.GetMSME(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrMSMENotFound) {
			s.logger.Error("failed to get msme", zap.Int64("msme_id", id), zap.Error(err))
		}
		return nil, err
	}
	return &m, nil
}

// CheckName reports whether another MSME already uses name
func (s *MSMEService) CheckName(ctx context.Context, name string, excludeID int64) (*models.NameCheckResponse, error) {
	name = utils.SanitizeString(name)
	exists, err := s.store.CompanyNameExists(ctx, name, excludeID)
	if err != nil {
		return nil, err
	}
	return &models.NameCheckResponse{CompanyName: name, Exists: exists}, nil
}

// Create validates payload and stores a new MSME on behalf of actor
func (s *MSMEService) Create(ctx context.Context, actor Actor, payload models.MSMEPayload) (*models.MSME, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "create_msme")
	defer span.End()

	p, err := s.validate(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.SectorID) {
		return nil, models.ErrForbiddenSector
	}
	if err := s.checkDuplicate(ctx, p.CompanyName, 0); err != nil {
		return nil, err
	}

	m, err := s.store.CreateMSME(actor.context(ctx), p)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}

	s.logger.Info("msme created",
		zap.Int64("msme_id", m.ID),
		zap.Int64("sector_id", m.SectorID),
		zap.String("contact_number", observability.MaskPhone(m.ContactNumber)),
		zap.String("created_by", actor.Subject))
	return &m, nil
}

// Update replaces the writable fields of an MSME. Sector admins can neither edit nor move records outside their sector.
func (s *MSMEService) Update(ctx context.Context, actor Actor, id int64, payload models.MSMEPayload) (*models.MSME, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "update_msme")
	defer span.End()

	current, err := s.store.GetMSME(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(current.SectorID) {
		return nil, models.ErrForbiddenSector
	}

	p, err := s.validate(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.SectorID) {
		return nil, models.ErrForbiddenSector
	}
	if err := s.checkDuplicate(ctx, p.CompanyName, id); err != nil {
		return nil, err
	}

	m, err := s.store.UpdateMSME(actor.context(ctx), id, p)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}

	s.logger.Info("msme updated", zap.Int64("msme_id", id), zap.String("updated_by", actor.Subject))
	return &m, nil
}

// Delete removes an MSME
func (s *MSMEService) Delete(ctx context.Context, actor Actor, id int64) error {
	current, err := s.store.GetMSME(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(current.SectorID) {
		return models.ErrForbiddenSector
	}
	if err := s.store.DeleteMSME(ctx, id); err != nil {
		return err
	}

	s.logger.Info("msme deleted", zap.Int64("msme_id", id), zap.String("deleted_by", actor.Subject))
	return nil
}

// validate runs the local field checks and the sector existence check
func (s *MSMEService) validate(ctx context.Context, payload models.MSMEPayload) (models.MSMEPayload, error) {
	_, span := utils.TraceInputValidation(ctx, "msme_payload", "payload")
	defer span.End()

	payload.ContactNumber = utils.NormalizeLocalPhone(payload.ContactNumber)
	p := payload.Normalize()
	result := utils.ValidateMSMEPayload(p, s.now())
	if p.SectorID > 0 {
		if _, err := s.store.GetSector(ctx, p.SectorID); err != nil {
			if !errors.Is(err, models.ErrSectorNotFound) {
				return p, err
			}
			result.AddError("sector_id", "Sector does not exist")
		}
	}
	if err := result.Err(); err != nil {
		s.logger.Debug("msme payload rejected",
			zap.Error(err),
			zap.Any("payload", observability.MaskSensitiveData(map[string]interface{}{
				"company_name":   p.CompanyName,
				"sector_id":      p.SectorID,
				"contact_person": p.ContactPerson,
				"contact_number": p.ContactNumber,
				"email":          p.Email,
			})))
		return p, err
	}
	return p, nil
}

func (s *MSMEService) checkDuplicate(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.store.CompanyNameExists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrDuplicateName
	}
	return nil
}
