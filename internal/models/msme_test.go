package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestMSMEPayload_Normalize(t *testing.T) {
	p := MSMEPayload{
		CompanyName:       "  Net's VCO ",
		ContactNumber:     " 917-123 4567 ",
		Email:             " Nets@Example.COM ",
		CityMunicipality:  " Lemery ",
		FacebookURL:       strPtr("   "),
		InstagramURL:      strPtr(" https://instagram.com/netsvco "),
		ProductGallery:    []string{"a.jpg", " ", "b.jpg"},
		MajorProductLines: nil,
	}

	n := p.Normalize()

	assert.Equal(t, "Net's VCO", n.CompanyName)
	assert.Equal(t, "9171234567", n.ContactNumber)
	assert.Equal(t, "nets@example.com", n.Email)
	assert.Equal(t, DefaultProvince, n.Province)
	assert.Equal(t, "Lemery", n.CityMunicipality)
	assert.Nil(t, n.FacebookURL)
	assert.Equal(t, "https://instagram.com/netsvco", *n.InstagramURL)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, n.ProductGallery)
	assert.NotNil(t, n.MajorProductLines)
	assert.Empty(t, n.MajorProductLines)
}

func TestMSMEPayload_NormalizeKeepsProvince(t *testing.T) {
	n := MSMEPayload{Province: "Guimaras"}.Normalize()
	if n.Province != "Guimaras" {
		t.Errorf("Normalize() province = %v, want Guimaras", n.Province)
	}
}

func TestNewMSME(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	m := NewMSME(7, MSMEPayload{CompanyName: "Mountain Brew", SectorID: 2}, "coffee-admin", now)

	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, "Mountain Brew", m.CompanyName)
	assert.Equal(t, int64(2), m.SectorID)
	assert.Equal(t, DefaultProvince, m.Province)
	assert.Equal(t, "coffee-admin", m.CreatedBy)
	assert.Equal(t, now, m.CreatedAt)
	assert.Equal(t, now, m.UpdatedAt)
	assert.Zero(t, m.Visits)
}

func TestMSME_ApplyKeepsIdentityAndCounters(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	m := NewMSME(3, MSMEPayload{CompanyName: "Old"}, "admin", created)
	m.Visits = 10
	m.Exports = 4

	m.Apply(MSMEPayload{CompanyName: "New"}, updated)

	assert.Equal(t, int64(3), m.ID)
	assert.Equal(t, "New", m.CompanyName)
	assert.Equal(t, int64(10), m.Visits)
	assert.Equal(t, int64(4), m.Exports)
	assert.Equal(t, created, m.CreatedAt)
	assert.Equal(t, updated, m.UpdatedAt)
}

func TestMSME_PayloadRoundTrip(t *testing.T) {
	p := MSMEPayload{
		CompanyName:       "Bamboo Crafts",
		SectorID:          1,
		ContactPerson:     "Joy",
		ContactNumber:     "9171234567",
		Email:             "joy@example.com",
		Province:          "Iloilo",
		CityMunicipality:  "Janiuay",
		ProductGallery:    []string{},
		MajorProductLines: []string{"baskets"},
	}
	m := NewMSME(1, p, "", time.Now())
	assert.Equal(t, p, m.Payload())
}

func TestNormalizedName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Mountain Brew", "mountain brew"},
		{"  MOUNTAIN   brew ", "mountain brew"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizedName(tt.input))
		})
	}
}
