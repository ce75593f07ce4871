package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type msmeRow struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	CompanyName       string    `gorm:"type:varchar(200);not null"`
	NameKey           string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description       string    `gorm:"type:text"`
	LogoURL           string    `gorm:"type:text"`
	ProductGallery    []string  `gorm:"type:text;serializer:json"`
	SectorID          int64     `gorm:"not null;index"`
	ContactPerson     string    `gorm:"type:varchar(200)"`
	ContactNumber     string    `gorm:"type:varchar(10)"`
	Email             string    `gorm:"type:varchar(254)"`
	Province          string    `gorm:"type:varchar(100)"`
	CityMunicipality  string    `gorm:"type:varchar(100);index"`
	Barangay          string    `gorm:"type:varchar(100)"`
	Latitude          *float64
	Longitude         *float64
	YearEstablished   int
	DTINumber         int64
	FacebookURL       *string   `gorm:"type:text"`
	InstagramURL      *string   `gorm:"type:text"`
	MajorProductLines []string  `gorm:"type:text;serializer:json"`
	CreatedBy         string    `gorm:"type:varchar(100)"`
	Visits            int64     `gorm:"not null"`
	Exports           int64     `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
}

func (msmeRow) TableName() string { return "msmes" }

type sectorRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null"`
	NameKey   string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (sectorRow) TableName() string { return "sectors" }

type adminRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email     string    `gorm:"type:varchar(254)"`
	FullName  string    `gorm:"type:varchar(200)"`
	Role      string    `gorm:"type:varchar(20);not null"`
	SectorID  int64     `gorm:"index"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (adminRow) TableName() string { return "admin_accounts" }

// SQL is a Store backed by a relational database through gorm
type SQL struct {
	db     *gorm.DB
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewSQL migrates the schema on db and returns the store
func NewSQL(db *gorm.DB, logger *logging.SafeLogger) (*SQL, error) {
	if err := db.AutoMigrate(&sectorRow{}, &msmeRow{}, &adminRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQL{db: db, logger: logger.Named("sql_store"), now: time.Now}, nil
}

// NewSQLite opens a SQLite database at path. ":memory:" gives a private in-memory database.
func NewSQLite(path string, logger *logging.SafeLogger) (*SQL, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return NewSQL(db, logger)
}

// Seed inserts data keeping its ids and realigns Postgres sequences
func (g *SQL) Seed(ctx context.Context, data FixtureData) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range data.Sectors {
			row := toSectorRow(s)
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to seed sector %d: %w", s.ID, err)
			}
		}
		for _, m := range data.MSMEs {
			row := toMSMERow(m)
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to seed msme %d: %w", m.ID, err)
			}
		}
		for _, a := range data.Admins {
			row := toAdminRow(a)
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to seed admin %d: %w", a.ID, err)
			}
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		for _, table := range []string{"sectors", "msmes", "admin_accounts"} {
			stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to realign sequence for %s: %w", table, err)
			}
		}
		return nil
	})
}

func (g *SQL) ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error) {
	query := g.db.WithContext(ctx).Model(&msmeRow{})
	if len(filters.Sectors) > 0 {
		query = query.Where("sector_id IN ?", filters.Sectors)
	}
	if len(filters.Locations) > 0 {
		lowered := make([]string, 0, len(filters.Locations))
		for _, loc := range filters.Locations {
			lowered = append(lowered, strings.ToLower(loc))
		}
		query = query.Where("LOWER(city_municipality) IN ?", lowered)
	}

	records, err := g.findMSMEs(query)
	if err != nil {
		return nil, 0, err
	}
	sectors, err := g.ListSectors(ctx)
	if err != nil {
		return nil, 0, err
	}

	items, total := pageOf(records, sectors, filters, page, pageSize)
	return items, total, nil
}

func (g *SQL) AllMSMEs(ctx context.Context) ([]models.MSME, error) {
	return g.findMSMEs(g.db.WithContext(ctx).Model(&msmeRow{}))
}

func (g *SQL) findMSMEs(query *gorm.DB) ([]models.MSME, error) {
	var rows []msmeRow
	if err := query.Order("id").Find(&rows).Error; err != nil {
		observability.DatabaseOperations.WithLabelValues("find_msmes", "error").Inc()
		return nil, fmt.Errorf("failed to list msmes: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("find_msmes", "success").Inc()

	out := make([]models.MSME, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (g *SQL) ListSectors(ctx context.Context) ([]models.Sector, error) {
	var rows []sectorRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	out := make([]models.Sector, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (g *SQL) GetMSME(ctx context.Context, id int64) (models.MSME, error) {
	var row msmeRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.MSME{}, notFound(models.ErrMSMENotFound, id)
		}
		return models.MSME{}, fmt.Errorf("failed to get msme: %w", err)
	}
	return row.toModel(), nil
}

func (g *SQL) CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error) {
	now := g.now().UTC()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := g.checkMSMEWrite(ctx, p, 0); err != nil {
		return models.MSME{}, err
	}

	row := toMSMERow(models.NewMSME(0, p, ActorFrom(ctx), now))
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.MSME{}, models.ErrDuplicateName
		}
		observability.DatabaseOperations.WithLabelValues("insert_msme", "error").Inc()
		return models.MSME{}, fmt.Errorf("failed to insert msme: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("insert_msme", "success").Inc()

	g.logger.Info("msme created", zap.Int64("msme_id", row.ID), zap.Int64("sector_id", row.SectorID))
	return row.toModel(), nil
}

func (g *SQL) UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error) {
	msme, err := g.GetMSME(ctx, id)
	if err != nil {
		return models.MSME{}, err
	}

	now := g.now().UTC()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := g.checkMSMEWrite(ctx, p, id); err != nil {
		return models.MSME{}, err
	}

	msme.Apply(p, now)
	row := toMSMERow(msme)
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.MSME{}, models.ErrDuplicateName
		}
		return models.MSME{}, fmt.Errorf("failed to update msme: %w", err)
	}
	return msme, nil
}

func (g *SQL) DeleteMSME(ctx context.Context, id int64) error {
	res := g.db.WithContext(ctx).Delete(&msmeRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete msme: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(models.ErrMSMENotFound, id)
	}
	return nil
}

func (g *SQL) RecordVisit(ctx context.Context, id int64) error {
	return g.increment(ctx, id, "visits")
}

func (g *SQL) RecordExport(ctx context.Context, id int64) error {
	return g.increment(ctx, id, "exports")
}

func (g *SQL) increment(ctx context.Context, id int64, column string) error {
	res := g.db.WithContext(ctx).Model(&msmeRow{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(models.ErrMSMENotFound, id)
	}
	return nil
}

func (g *SQL) CompanyNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	query := g.db.WithContext(ctx).Model(&msmeRow{}).Where("name_key = ?", models.NormalizedName(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check company name: %w", err)
	}
	return n > 0, nil
}

func (g *SQL) GetSector(ctx context.Context, id int64) (models.Sector, error) {
	var row sectorRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sector{}, notFound(models.ErrSectorNotFound, id)
		}
		return models.Sector{}, fmt.Errorf("failed to get sector: %w", err)
	}
	return row.toModel(), nil
}

func (g *SQL) CreateSector(ctx context.Context, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}

	if err := g.checkSectorName(ctx, name, 0); err != nil {
		return models.Sector{}, err
	}

	now := g.now().UTC()
	row := toSectorRow(models.Sector{Name: name, CreatedAt: now, UpdatedAt: now})
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Sector{}, models.ErrSectorNameExists
		}
		return models.Sector{}, fmt.Errorf("failed to insert sector: %w", err)
	}
	return row.toModel(), nil
}

func (g *SQL) UpdateSector(ctx context.Context, id int64, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}
	s, err := g.GetSector(ctx, id)
	if err != nil {
		return models.Sector{}, err
	}

	if err := g.checkSectorName(ctx, name, id); err != nil {
		return models.Sector{}, err
	}

	s.Name = name
	s.UpdatedAt = g.now().UTC()
	row := toSectorRow(s)
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Sector{}, models.ErrSectorNameExists
		}
		return models.Sector{}, fmt.Errorf("failed to update sector: %w", err)
	}
	return s, nil
}

func (g *SQL) DeleteSector(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sectorRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(models.ErrSectorNotFound, id)
			}
			return fmt.Errorf("failed to get sector: %w", err)
		}

		var n int64
		if err := tx.Model(&msmeRow{}).Where("sector_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to count sector msmes: %w", err)
		}
		if n > 0 {
			return models.ErrSectorInUse
		}
		if err := tx.Delete(&sectorRow{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete sector: %w", err)
		}
		return nil
	})
}

func (g *SQL) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	var rows []adminRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	out := make([]models.AdminAccount, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (g *SQL) GetAdmin(ctx context.Context, id int64) (models.AdminAccount, error) {
	var row adminRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AdminAccount{}, notFound(models.ErrAdminNotFound, id)
		}
		return models.AdminAccount{}, fmt.Errorf("failed to get admin: %w", err)
	}
	return row.toModel(), nil
}

func (g *SQL) CreateAdmin(ctx context.Context, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}
	if err := g.checkAdminWrite(ctx, r, 0); err != nil {
		return models.AdminAccount{}, err
	}

	row := toAdminRow(models.NewAdminAccount(0, r, g.now().UTC()))
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.AdminAccount{}, models.ErrUsernameExists
		}
		return models.AdminAccount{}, fmt.Errorf("failed to insert admin: %w", err)
	}
	return row.toModel(), nil
}

func (g *SQL) UpdateAdmin(ctx context.Context, id int64, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}
	a, err := g.GetAdmin(ctx, id)
	if err != nil {
		return models.AdminAccount{}, err
	}
	if err := g.checkAdminWrite(ctx, r, id); err != nil {
		return models.AdminAccount{}, err
	}

	a.Apply(r, g.now().UTC())
	row := toAdminRow(a)
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.AdminAccount{}, models.ErrUsernameExists
		}
		return models.AdminAccount{}, fmt.Errorf("failed to update admin: %w", err)
	}
	return a, nil
}

func (g *SQL) DeleteAdmin(ctx context.Context, id int64) error {
	res := g.db.WithContext(ctx).Delete(&adminRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(models.ErrAdminNotFound, id)
	}
	return nil
}

func (g *SQL) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *SQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *SQL) checkMSMEWrite(ctx context.Context, p models.MSMEPayload, id int64) error {
	if _, err := g.GetSector(ctx, p.SectorID); err != nil {
		return err
	}
	exists, err := g.CompanyNameExists(ctx, p.CompanyName, id)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrDuplicateName
	}
	return nil
}

func (g *SQL) checkSectorName(ctx context.Context, name string, id int64) error {
	var n int64
	query := g.db.WithContext(ctx).Model(&sectorRow{}).Where("name_key = ?", models.NormalizedName(name))
	if id != 0 {
		query = query.Where("id <> ?", id)
	}
	if err := query.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check sector name: %w", err)
	}
	if n > 0 {
		return models.ErrSectorNameExists
	}
	return nil
}

func (g *SQL) checkAdminWrite(ctx context.Context, r models.AdminAccountRequest, id int64) error {
	if r.SectorID != 0 {
		if _, err := g.GetSector(ctx, r.SectorID); err != nil {
			return err
		}
	}

	var n int64
	query := g.db.WithContext(ctx).Model(&adminRow{}).Where("username = ?", r.Username)
	if id != 0 {
		query = query.Where("id <> ?", id)
	}
	if err := query.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if n > 0 {
		return models.ErrUsernameExists
	}
	return nil
}

func toMSMERow(m models.MSME) msmeRow {
	return msmeRow{
		ID:                m.ID,
		CompanyName:       m.CompanyName,
		NameKey:           models.NormalizedName(m.CompanyName),
		Description:       m.Description,
		LogoURL:           m.LogoURL,
		ProductGallery:    m.ProductGallery,
		SectorID:          m.SectorID,
		ContactPerson:     m.ContactPerson,
		ContactNumber:     m.ContactNumber,
		Email:             m.Email,
		Province:          m.Province,
		CityMunicipality:  m.CityMunicipality,
		Barangay:          m.Barangay,
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
		YearEstablished:   m.YearEstablished,
		DTINumber:         m.DTINumber,
		FacebookURL:       m.FacebookURL,
		InstagramURL:      m.InstagramURL,
		MajorProductLines: m.MajorProductLines,
		CreatedBy:         m.CreatedBy,
		Visits:            m.Visits,
		Exports:           m.Exports,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r msmeRow) toModel() models.MSME {
	gallery := r.ProductGallery
	if gallery == nil {
		gallery = []string{}
	}
	lines := r.MajorProductLines
	if lines == nil {
		lines = []string{}
	}
	return models.MSME{
		ID:                r.ID,
		CompanyName:       r.CompanyName,
		Description:       r.Description,
		LogoURL:           r.LogoURL,
		ProductGallery:    gallery,
		SectorID:          r.SectorID,
		ContactPerson:     r.ContactPerson,
		ContactNumber:     r.ContactNumber,
		Email:             r.Email,
		Province:          r.Province,
		CityMunicipality:  r.CityMunicipality,
		Barangay:          r.Barangay,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		YearEstablished:   r.YearEstablished,
		DTINumber:         r.DTINumber,
		FacebookURL:       r.FacebookURL,
		InstagramURL:      r.InstagramURL,
		MajorProductLines: lines,
		CreatedBy:         r.CreatedBy,
		Visits:            r.Visits,
		Exports:           r.Exports,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toSectorRow(s models.Sector) sectorRow {
	return sectorRow{ID: s.ID, Name: s.Name, NameKey: s.GetNormalizedName(), CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

func (r sectorRow) toModel() models.Sector {
	return models.Sector{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func toAdminRow(a models.AdminAccount) adminRow {
	return adminRow{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FullName:  a.FullName,
		Role:      a.Role,
		SectorID:  a.SectorID,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (r adminRow) toModel() models.AdminAccount {
	return models.AdminAccount{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FullName:  r.FullName,
		Role:      r.Role,
		SectorID:  r.SectorID,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
