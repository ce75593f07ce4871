// Package gateway defines the data access contract of the directory and its store implementations.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/utils"
)

// ErrDuplicateVisit is returned by RecordVisit when the same client visited within the dedupe window
var ErrDuplicateVisit = errors.New("visit already recorded")

// Gateway is the set of remote operations the listing, export and admin views depend on
type Gateway interface {
	// ListMSMEs returns one page of the filtered, sorted collection plus the filtered total.
	// page and pageSize take precedence over the paging fields of filters.
	ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
	GetMSME(ctx context.Context, id int64) (models.MSME, error)
	CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error)
	UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error)
	DeleteMSME(ctx context.Context, id int64) error
	RecordVisit(ctx context.Context, id int64) error
	RecordExport(ctx context.Context, id int64) error
	CompanyNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
}

// Store is a Gateway that also owns sectors and admin accounts
type Store interface {
	Gateway

	AllMSMEs(ctx context.Context) ([]models.MSME, error)

	GetSector(ctx context.Context, id int64) (models.Sector, error)
	CreateSector(ctx context.Context, name string) (models.Sector, error)
	UpdateSector(ctx context.Context, id int64, name string) (models.Sector, error)
	// DeleteSector refuses sectors still referenced by an MSME with models.ErrSectorInUse
	DeleteSector(ctx context.Context, id int64) error

	ListAdmins(ctx context.Context) ([]models.AdminAccount, error)
	GetAdmin(ctx context.Context, id int64) (models.AdminAccount, error)
	CreateAdmin(ctx context.Context, req models.AdminAccountRequest) (models.AdminAccount, error)
	UpdateAdmin(ctx context.Context, id int64, req models.AdminAccountRequest) (models.AdminAccount, error)
	DeleteAdmin(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}

type contextKey string

const (
	actorKey  contextKey = "gateway_actor"
	clientKey contextKey = "gateway_client"
)

// WithActor attaches the subject performing a write, recorded as created_by on new MSMEs
func WithActor(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, actorKey, subject)
}

// ActorFrom returns the subject attached by WithActor
func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey).(string)
	return s
}

// WithClient attaches an identifier of the visiting client, used to de-duplicate visits
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// ClientFrom returns the identifier attached by WithClient
func ClientFrom(ctx context.Context) string {
	s, _ := ctx.Value(clientKey).(string)
	return s
}

// pageOf applies the shared listing pipeline to records whose sector and location filters were
// already pushed down to the backend.
func pageOf(records []models.MSME, sectors []models.Sector, filters listing.Query, page, pageSize int) ([]models.MSME, int) {
	q := filters.Clone()
	q.Page = page
	q.PageSize = pageSize
	res := listing.Run(records, models.SectorNames(sectors), q)
	return res.Items, res.Total
}

// prepareMSME normalizes and validates a payload before any write
func prepareMSME(p models.MSMEPayload, now time.Time) (models.MSMEPayload, error) {
	p.ContactNumber = utils.NormalizeLocalPhone(p.ContactNumber)
	p = p.Normalize()
	if err := utils.ValidateMSMEPayload(p, now).Err(); err != nil {
		return p, err
	}
	return p, nil
}

// prepareAdmin normalizes and validates an admin account request before any write
func prepareAdmin(r models.AdminAccountRequest) (models.AdminAccountRequest, error) {
	r = r.Normalize()
	if err := utils.ValidateAdminAccount(r).Err(); err != nil {
		return r, err
	}
	return r, nil
}

func prepareSectorName(name string) (string, error) {
	s := models.Sector{Name: utils.SanitizeString(name)}
	if err := s.ValidateName(); err != nil {
		return "", err
	}
	return s.Name, nil
}

func notFound(err error, id int64) error {
	return fmt.Errorf("%w: id %d", err, id)
}
