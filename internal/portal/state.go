// Package portal holds the view controllers of the directory: explicit application state and a
// list view that keeps the filter panel, selection and gateway in step.
package portal

import (
	"sync"

	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/models"
)

// State is the application state shared by reference between view controllers.
// It is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	sectors []models.Sector
	result  listing.Result
	loading bool
	lastErr error
	notice  string
}

// Snapshot is a consistent copy of State
type Snapshot struct {
	Sectors []models.Sector
	Result  listing.Result
	Loading bool
	Err     error
	// Notice is a transient message for the user, cleared by TakeNotice
	Notice string
}

func NewState() *State {
	return &State{result: emptyResult(listing.DefaultQuery())}
}

// Snapshot returns a copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Sectors: append([]models.Sector{}, s.sectors...),
		Result:  s.result,
		Loading: s.loading,
		Err:     s.lastErr,
		Notice:  s.notice,
	}
}

func (s *State) Sectors() []models.Sector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Sector{}, s.sectors...)
}

// SectorNames maps sector ids to display names
func (s *State) SectorNames() map[int64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SectorNames(s.sectors)
}

func (s *State) Result() listing.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// TakeNotice returns the pending notice and clears it
func (s *State) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

func (s *State) setSectors(sectors []models.Sector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors = sectors
}

func (s *State) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *State) setResult(r listing.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
	s.loading = false
	s.lastErr = nil
}

// fail resets the listing to an empty state and records err with a notice for the user
func (s *State) fail(q listing.Query, err error, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = emptyResult(q)
	s.loading = false
	s.lastErr = err
	s.notice = notice
}

func (s *State) failSectors(err error, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors = []models.Sector{}
	s.lastErr = err
	s.notice = notice
}

func emptyResult(q listing.Query) listing.Result {
	q = q.Normalized()
	return listing.Result{Items: []models.MSME{}, Page: q.Page, PageSize: q.PageSize, Empty: true}
}
