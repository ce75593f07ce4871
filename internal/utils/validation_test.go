package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validationNow = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func validPayload() models.MSMEPayload {
	return models.MSMEPayload{
		CompanyName:      "Mountain Brew",
		SectorID:         2,
		ContactPerson:    "Ramon Dela Cruz",
		ContactNumber:    "9171234567",
		Email:            "brew@example.com",
		Province:         "Iloilo",
		CityMunicipality: "Alimodian",
	}.Normalize()
}

func errorFields(result *ValidationResult) []string {
	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestNewValidationResult(t *testing.T) {
	result := NewValidationResult()

	require.NotNil(t, result)
	assert.True(t, result.IsValid)
	assert.NotNil(t, result.Errors)
	assert.Len(t, result.Errors, 0)
	assert.NoError(t, result.Err())
}

func TestValidationResult_AddError(t *testing.T) {
	result := NewValidationResult()

	result.AddError("test_field", "test message")

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "test_field", result.Errors[0].Field)
	assert.Equal(t, "test message", result.Errors[0].Message)

	err := result.Err()
	require.Error(t, err)
	var failure *ValidationFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "test message", failure.Field("test_field"))
	assert.Equal(t, "", failure.Field("other"))
	assert.Contains(t, err.Error(), "test_field: test message")
}

func TestValidateMSMEPayload(t *testing.T) {
	lat, lng := 10.85, 122.37
	badLat := 120.0

	tests := []struct {
		name       string
		mutate     func(p *models.MSMEPayload)
		wantFields []string
	}{
		{name: "valid payload", mutate: func(p *models.MSMEPayload) {}, wantFields: []string{}},
		{name: "missing company name", mutate: func(p *models.MSMEPayload) { p.CompanyName = "" }, wantFields: []string{"company_name"}},
		{name: "company name too long", mutate: func(p *models.MSMEPayload) { p.CompanyName = strings.Repeat("a", 201) }, wantFields: []string{"company_name"}},
		{name: "missing sector", mutate: func(p *models.MSMEPayload) { p.SectorID = 0 }, wantFields: []string{"sector_id"}},
		{name: "missing contact person", mutate: func(p *models.MSMEPayload) { p.ContactPerson = "" }, wantFields: []string{"contact_person"}},
		{name: "missing city", mutate: func(p *models.MSMEPayload) { p.CityMunicipality = "" }, wantFields: []string{"city_municipality"}},
		{name: "phone too short", mutate: func(p *models.MSMEPayload) { p.ContactNumber = "917123456" }, wantFields: []string{"contact_number"}},
		{name: "phone with letters", mutate: func(p *models.MSMEPayload) { p.ContactNumber = "917123456x" }, wantFields: []string{"contact_number"}},
		{name: "phone with country code", mutate: func(p *models.MSMEPayload) { p.ContactNumber = "639171234567" }, wantFields: []string{"contact_number"}},
		{name: "missing phone", mutate: func(p *models.MSMEPayload) { p.ContactNumber = "" }, wantFields: []string{"contact_number"}},
		{name: "malformed email", mutate: func(p *models.MSMEPayload) { p.Email = "brew.example.com" }, wantFields: []string{"email"}},
		{name: "missing email", mutate: func(p *models.MSMEPayload) { p.Email = "" }, wantFields: []string{"email"}},
		{name: "year too early", mutate: func(p *models.MSMEPayload) { p.YearEstablished = 1700 }, wantFields: []string{"year_established"}},
		{name: "year in future", mutate: func(p *models.MSMEPayload) { p.YearEstablished = 2030 }, wantFields: []string{"year_established"}},
		{name: "year current", mutate: func(p *models.MSMEPayload) { p.YearEstablished = 2024 }, wantFields: []string{}},
		{name: "negative dti", mutate: func(p *models.MSMEPayload) { p.DTINumber = -1 }, wantFields: []string{"dti_number"}},
		{name: "coordinates pair", mutate: func(p *models.MSMEPayload) { p.Latitude, p.Longitude = &lat, &lng }, wantFields: []string{}},
		{name: "latitude alone", mutate: func(p *models.MSMEPayload) { p.Latitude = &lat }, wantFields: []string{"latitude"}},
		{name: "latitude out of range", mutate: func(p *models.MSMEPayload) { p.Latitude, p.Longitude = &badLat, &lng }, wantFields: []string{"latitude"}},
		{name: "bad logo url", mutate: func(p *models.MSMEPayload) { p.LogoURL = "not a url" }, wantFields: []string{"logo_url"}},
		{name: "bad gallery url", mutate: func(p *models.MSMEPayload) {
			p.ProductGallery = []string{"https://cdn.example.com/a.jpg", "nope"}
		}, wantFields: []string{"product_gallery[1]"}},
		{name: "multiple errors", mutate: func(p *models.MSMEPayload) {
			p.CompanyName = ""
			p.Email = "bad"
		}, wantFields: []string{"company_name", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			result := ValidateMSMEPayload(p, validationNow)

			assert.Equal(t, len(tt.wantFields) == 0, result.IsValid)
			assert.Equal(t, tt.wantFields, errorFields(result))
		})
	}
}

func TestValidateAdminAccount(t *testing.T) {
	tests := []struct {
		name       string
		req        models.AdminAccountRequest
		wantFields []string
	}{
		{name: "valid sector admin", req: models.AdminAccountRequest{Username: "coffee.admin", Email: "c@iloilo.gov.ph", SectorID: 2}, wantFields: []string{}},
		{name: "valid superadmin", req: models.AdminAccountRequest{Username: "root", Email: "r@iloilo.gov.ph", Role: "superadmin"}, wantFields: []string{}},
		{name: "sector admin without sector", req: models.AdminAccountRequest{Username: "nobody", Email: "n@iloilo.gov.ph"}, wantFields: []string{"sector_id"}},
		{name: "bad username", req: models.AdminAccountRequest{Username: "a b", Email: "n@iloilo.gov.ph", SectorID: 1}, wantFields: []string{"username"}},
		{name: "short username", req: models.AdminAccountRequest{Username: "ab", Email: "n@iloilo.gov.ph", SectorID: 1}, wantFields: []string{"username"}},
		{name: "unknown role", req: models.AdminAccountRequest{Username: "guest", Email: "g@iloilo.gov.ph", Role: "guest"}, wantFields: []string{"role"}},
		{name: "missing email", req: models.AdminAccountRequest{Username: "guest", SectorID: 1}, wantFields: []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAdminAccount(tt.req.Normalize())
			assert.Equal(t, tt.wantFields, errorFields(result))
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Coffee", SanitizeString("  Coffee \n"))
}
