package gateway

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/models"
)

// Memory is an in-process Store used for development, tests and as mock data provider
type Memory struct {
	mu      sync.RWMutex
	msmes   map[int64]models.MSME
	sectors map[int64]models.Sector
	admins  map[int64]models.AdminAccount

	nextMSME   int64
	nextSector int64
	nextAdmin  int64

	now func() time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		msmes:   make(map[int64]models.MSME),
		sectors: make(map[int64]models.Sector),
		admins:  make(map[int64]models.AdminAccount),
		now:     time.Now,
	}
}

// NewMemoryWithFixtures creates an in-memory store seeded with the development fixtures
func NewMemoryWithFixtures() *Memory {
	m := NewMemory()
	m.Load(Fixtures())
	return m
}

// Load replaces the store content with data, keeping the ids it carries
func (m *Memory) Load(data FixtureData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msmes = make(map[int64]models.MSME, len(data.MSMEs))
	m.sectors = make(map[int64]models.Sector, len(data.Sectors))
	m.admins = make(map[int64]models.AdminAccount, len(data.Admins))
	m.nextMSME, m.nextSector, m.nextAdmin = 0, 0, 0

	for _, s := range data.Sectors {
		m.sectors[s.ID] = s
		m.nextSector = max(m.nextSector, s.ID)
	}
	for _, msme := range data.MSMEs {
		m.msmes[msme.ID] = msme
		m.nextMSME = max(m.nextMSME, msme.ID)
	}
	for _, a := range data.Admins {
		m.admins[a.ID] = a
		m.nextAdmin = max(m.nextAdmin, a.ID)
	}
}

// SetClock overrides the time source, for tests
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) ListMSMEs(ctx context.Context, filters listing.Query, page, pageSize int) ([]models.MSME, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pushed := make([]models.MSME, 0, len(m.msmes))
	for _, msme := range m.sortedMSMEs() {
		if listing.MatchesSector(msme, filters.Sectors) && listing.MatchesLocation(msme, filters.Locations) {
			pushed = append(pushed, msme)
		}
	}
	items, total := pageOf(pushed, m.sortedSectors(), filters, page, pageSize)
	return items, total, nil
}

func (m *Memory) AllMSMEs(ctx context.Context) ([]models.MSME, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedMSMEs(), nil
}

func (m *Memory) ListSectors(ctx context.Context) ([]models.Sector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedSectors(), nil
}

func (m *Memory) GetMSME(ctx context.Context, id int64) (models.MSME, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msme, ok := m.msmes[id]
	if !ok {
		return models.MSME{}, notFound(models.ErrMSMENotFound, id)
	}
	return msme, nil
}

func (m *Memory) CreateMSME(ctx context.Context, payload models.MSMEPayload) (models.MSME, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := m.checkMSMEWrite(p, 0); err != nil {
		return models.MSME{}, err
	}

	m.nextMSME++
	msme := models.NewMSME(m.nextMSME, p, ActorFrom(ctx), now)
	m.msmes[msme.ID] = msme
	return msme, nil
}

func (m *Memory) UpdateMSME(ctx context.Context, id int64, payload models.MSMEPayload) (models.MSME, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msme, ok := m.msmes[id]
	if !ok {
		return models.MSME{}, notFound(models.ErrMSMENotFound, id)
	}

	now := m.now()
	p, err := prepareMSME(payload, now)
	if err != nil {
		return models.MSME{}, err
	}
	if err := m.checkMSMEWrite(p, id); err != nil {
		return models.MSME{}, err
	}

	msme.Apply(p, now)
	m.msmes[id] = msme
	return msme, nil
}

func (m *Memory) DeleteMSME(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.msmes[id]; !ok {
		return notFound(models.ErrMSMENotFound, id)
	}
	delete(m.msmes, id)
	return nil
}

func (m *Memory) RecordVisit(ctx context.Context, id int64) error {
	return m.bump(id, func(msme *models.MSME) { msme.Visits++ })
}

func (m *Memory) RecordExport(ctx context.Context, id int64) error {
	return m.bump(id, func(msme *models.MSME) { msme.Exports++ })
}

func (m *Memory) CompanyNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nameTaken(name, excludeID), nil
}

func (m *Memory) GetSector(ctx context.Context, id int64) (models.Sector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sectors[id]
	if !ok {
		return models.Sector{}, notFound(models.ErrSectorNotFound, id)
	}
	return s, nil
}

func (m *Memory) CreateSector(ctx context.Context, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sectorNameTaken(name, 0) {
		return models.Sector{}, models.ErrSectorNameExists
	}
	now := m.now()
	m.nextSector++
	s := models.Sector{ID: m.nextSector, Name: name, CreatedAt: now, UpdatedAt: now}
	m.sectors[s.ID] = s
	return s, nil
}

func (m *Memory) UpdateSector(ctx context.Context, id int64, name string) (models.Sector, error) {
	name, err := prepareSectorName(name)
	if err != nil {
		return models.Sector{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sectors[id]
	if !ok {
		return models.Sector{}, notFound(models.ErrSectorNotFound, id)
	}
	if m.sectorNameTaken(name, id) {
		return models.Sector{}, models.ErrSectorNameExists
	}
	s.Name = name
	s.UpdatedAt = m.now()
	m.sectors[id] = s
	return s, nil
}

func (m *Memory) DeleteSector(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sectors[id]; !ok {
		return notFound(models.ErrSectorNotFound, id)
	}
	for _, msme := range m.msmes {
		if msme.SectorID == id {
			return models.ErrSectorInUse
		}
	}
	delete(m.sectors, id)
	return nil
}

func (m *Memory) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AdminAccount, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetAdmin(ctx context.Context, id int64) (models.AdminAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.admins[id]
	if !ok {
		return models.AdminAccount{}, notFound(models.ErrAdminNotFound, id)
	}
	return a, nil
}

func (m *Memory) CreateAdmin(ctx context.Context, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAdminWrite(r, 0); err != nil {
		return models.AdminAccount{}, err
	}
	m.nextAdmin++
	a := models.NewAdminAccount(m.nextAdmin, r, m.now())
	m.admins[a.ID] = a
	return a, nil
}

func (m *Memory) UpdateAdmin(ctx context.Context, id int64, req models.AdminAccountRequest) (models.AdminAccount, error) {
	r, err := prepareAdmin(req)
	if err != nil {
		return models.AdminAccount{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[id]
	if !ok {
		return models.AdminAccount{}, notFound(models.ErrAdminNotFound, id)
	}
	if err := m.checkAdminWrite(r, id); err != nil {
		return models.AdminAccount{}, err
	}
	a.Apply(r, m.now())
	m.admins[id] = a
	return a, nil
}

func (m *Memory) DeleteAdmin(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[id]; !ok {
		return notFound(models.ErrAdminNotFound, id)
	}
	delete(m.admins, id)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) bump(id int64, apply func(*models.MSME)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msme, ok := m.msmes[id]
	if !ok {
		return notFound(models.ErrMSMENotFound, id)
	}
	apply(&msme)
	m.msmes[id] = msme
	return nil
}

// checkMSMEWrite enforces sector existence and company name uniqueness. Callers hold the write lock.
func (m *Memory) checkMSMEWrite(p models.MSMEPayload, id int64) error {
	if _, ok := m.sectors[p.SectorID]; !ok {
		return notFound(models.ErrSectorNotFound, p.SectorID)
	}
	if m.nameTaken(p.CompanyName, id) {
		return models.ErrDuplicateName
	}
	return nil
}

func (m *Memory) checkAdminWrite(r models.AdminAccountRequest, id int64) error {
	if r.SectorID != 0 {
		if _, ok := m.sectors[r.SectorID]; !ok {
			return notFound(models.ErrSectorNotFound, r.SectorID)
		}
	}
	for _, a := range m.admins {
		if a.ID != id && a.Username == r.Username {
			return models.ErrUsernameExists
		}
	}
	return nil
}

func (m *Memory) nameTaken(name string, excludeID int64) bool {
	key := models.NormalizedName(name)
	for _, msme := range m.msmes {
		if msme.ID != excludeID && models.NormalizedName(msme.CompanyName) == key {
			return true
		}
	}
	return false
}

func (m *Memory) sectorNameTaken(name string, excludeID int64) bool {
	key := models.NormalizedName(name)
	for _, s := range m.sectors {
		if s.ID != excludeID && s.GetNormalizedName() == key {
			return true
		}
	}
	return false
}

func (m *Memory) sortedMSMEs() []models.MSME {
	out := make([]models.MSME, 0, len(m.msmes))
	for _, msme := range m.msmes {
		out = append(out, msme)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) sortedSectors() []models.Sector {
	out := make([]models.Sector, 0, len(m.sectors))
	for _, s := range m.sectors {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
