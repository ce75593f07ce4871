package models

import (
	"strings"
	"time"
)

// MaxSectorNameLength bounds sector display names
const MaxSectorNameLength = 100

// Sector is a business category used for classification, filtering and admin scoping
type Sector struct {
	ID        int64     `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SectorRequest represents the request body for creating/updating a sector
type SectorRequest struct {
	Name string `json:"name" binding:"required"`
}

// SectorListResponse lists every sector
type SectorListResponse struct {
	Sectors []Sector `json:"sectors"`
}

// GetNormalizedName returns the lowercase, trimmed name used for uniqueness checks
func (s *Sector) GetNormalizedName() string {
	return NormalizedName(s.Name)
}

// ValidateName validates the sector name
func (s *Sector) ValidateName() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrInvalidSectorName
	}
	if len(name) > MaxSectorNameLength {
		return ErrSectorNameTooLong
	}
	return nil
}

// SectorNames indexes sector display names by id
func SectorNames(sectors []Sector) map[int64]string {
	names := make(map[int64]string, len(sectors))
	for _, s := range sectors {
		names[s.ID] = s.Name
	}
	return names
}
