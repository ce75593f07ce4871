package models

import (
	"strings"
	"time"
)

// DefaultProvince is applied when an MSME payload leaves the province blank
const DefaultProvince = "Iloilo"

// MSME represents a Micro, Small or Medium Enterprise listed in the directory
type MSME struct {
	ID                int64     `bson:"_id" json:"id"`
	CompanyName       string    `bson:"company_name" json:"company_name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	LogoURL           string    `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	ProductGallery    []string  `bson:"product_gallery" json:"product_gallery"`
	SectorID          int64     `bson:"sector_id" json:"sector_id"`
	ContactPerson     string    `bson:"contact_person" json:"contact_person"`
	ContactNumber     string    `bson:"contact_number" json:"contact_number"`
	Email             string    `bson:"email" json:"email"`
	Province          string    `bson:"province" json:"province"`
	CityMunicipality  string    `bson:"city_municipality" json:"city_municipality"`
	Barangay          string    `bson:"barangay,omitempty" json:"barangay,omitempty"`
	Latitude          *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	YearEstablished   int       `bson:"year_established,omitempty" json:"year_established,omitempty"`
	DTINumber         int64     `bson:"dti_number,omitempty" json:"dti_number,omitempty"`
	FacebookURL       *string   `bson:"facebook_url,omitempty" json:"facebook_url,omitempty"`
	InstagramURL      *string   `bson:"instagram_url,omitempty" json:"instagram_url,omitempty"`
	MajorProductLines []string  `bson:"major_product_lines" json:"major_product_lines"`
	CreatedBy         string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Visits            int64     `bson:"visits" json:"visits"`
	Exports           int64     `bson:"exports" json:"exports"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// MSMEPayload is the writable part of an MSME, used by create and update requests
type MSMEPayload struct {
	CompanyName       string   `json:"company_name"`
	Description       string   `json:"description"`
	LogoURL           string   `json:"logo_url"`
	ProductGallery    []string `json:"product_gallery"`
	SectorID          int64    `json:"sector_id"`
	ContactPerson     string   `json:"contact_person"`
	ContactNumber     string   `json:"contact_number"`
	Email             string   `json:"email"`
	Province          string   `json:"province"`
	CityMunicipality  string   `json:"city_municipality"`
	Barangay          string   `json:"barangay"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	YearEstablished   int      `json:"year_established"`
	DTINumber         int64    `json:"dti_number"`
	FacebookURL       *string  `json:"facebook_url"`
	InstagramURL      *string  `json:"instagram_url"`
	MajorProductLines []string `json:"major_product_lines"`
}

// MSMEListResponse represents a paginated list of MSMEs
type MSMEListResponse struct {
	MSMEs      []MSME         `json:"msmes"`
	Pagination PaginationInfo `json:"pagination"`
	TotalCount int64          `json:"total_count"`
	Empty      bool           `json:"empty"`
}

// NameCheckResponse answers the duplicate company name round trip
type NameCheckResponse struct {
	CompanyName string `json:"company_name"`
	Exists      bool   `json:"exists"`
}

// Normalize trims the payload and resolves defaults so read sites never have to
func (p MSMEPayload) Normalize() MSMEPayload {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.Description = strings.TrimSpace(p.Description)
	p.LogoURL = strings.TrimSpace(p.LogoURL)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.ContactNumber = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(p.ContactNumber))
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Province = strings.TrimSpace(p.Province)
	if p.Province == "" {
		p.Province = DefaultProvince
	}
	p.CityMunicipality = strings.TrimSpace(p.CityMunicipality)
	p.Barangay = strings.TrimSpace(p.Barangay)
	p.FacebookURL = trimOptional(p.FacebookURL)
	p.InstagramURL = trimOptional(p.InstagramURL)
	p.ProductGallery = compactList(p.ProductGallery)
	p.MajorProductLines = compactList(p.MajorProductLines)
	return p
}

// NewMSME builds a record from a normalized payload
func NewMSME(id int64, p MSMEPayload, createdBy string, now time.Time) MSME {
	m := MSME{
		ID:        id,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	m.Apply(p, now)
	return m
}

// Apply overwrites the writable fields of m with the payload
func (m *MSME) Apply(p MSMEPayload, now time.Time) {
	p = p.Normalize()
	m.CompanyName = p.CompanyName
	m.Description = p.Description
	m.LogoURL = p.LogoURL
	m.ProductGallery = p.ProductGallery
	m.SectorID = p.SectorID
	m.ContactPerson = p.ContactPerson
	m.ContactNumber = p.ContactNumber
	m.Email = p.Email
	m.Province = p.Province
	m.CityMunicipality = p.CityMunicipality
	m.Barangay = p.Barangay
	m.Latitude = p.Latitude
	m.Longitude = p.Longitude
	m.YearEstablished = p.YearEstablished
	m.DTINumber = p.DTINumber
	m.FacebookURL = p.FacebookURL
	m.InstagramURL = p.InstagramURL
	m.MajorProductLines = p.MajorProductLines
	m.UpdatedAt = now
}

// Payload returns the writable fields of m
func (m MSME) Payload() MSMEPayload {
	return MSMEPayload{
		CompanyName:       m.CompanyName,
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
	}
}

// NormalizedName is the key used for case-insensitive company name uniqueness
func NormalizedName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func compactList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
