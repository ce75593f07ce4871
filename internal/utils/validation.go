package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/iloilo-msme/produkta/internal/models"
)

// Field length limits
const (
	MaxCompanyNameLength = 200
	MaxDescriptionLength = 2000
	MinYearEstablished   = 1800
)

// fieldValidate is the validator instance for single field checks.
// Initialized in init() with custom validators.
var fieldValidate *validator.Validate

func init() {
	fieldValidate = validator.New()
	_ = fieldValidate.RegisterValidation("ph_local_phone", validateLocalPhoneField)
	_ = fieldValidate.RegisterValidation("username", validateUsernameField)
}

var usernameRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)

func validateUsernameField(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validateLocalPhoneField(fl validator.FieldLevel) bool {
	return localPhoneRegex.MatchString(fl.Field().String())
}

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Err returns nil for a valid result and a *ValidationFailure otherwise
func (vr *ValidationResult) Err() error {
	if vr == nil || vr.IsValid {
		return nil
	}
	return &ValidationFailure{Errors: vr.Errors}
}

// ValidationFailure is the error form of an invalid ValidationResult
type ValidationFailure struct {
	Errors []ValidationError `json:"fields"`
}

func (f *ValidationFailure) Error() string {
	parts := make([]string, 0, len(f.Errors))
	for _, e := range f.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "" when the field passed
func (f *ValidationFailure) Field(field string) string {
	for _, e := range f.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// ValidateMSMEPayload validates a normalized MSME payload. now bounds the establishment year.
func ValidateMSMEPayload(p models.MSMEPayload, now time.Time) *ValidationResult {
	result := NewValidationResult()

	// Required fields validation
	if p.CompanyName == "" {
		result.AddError("company_name", "Company name is required")
	} else if len(p.CompanyName) > MaxCompanyNameLength {
		result.AddError("company_name", fmt.Sprintf("Company name must not exceed %d characters", MaxCompanyNameLength))
	}
	if p.SectorID <= 0 {
		result.AddError("sector_id", "Sector is required")
	}
	if p.ContactPerson == "" {
		result.AddError("contact_person", "Contact person is required")
	}
	if p.CityMunicipality == "" {
		result.AddError("city_municipality", "City/municipality is required")
	}

	if p.ContactNumber == "" {
		result.AddError("contact_number", "Contact number is required")
	} else if err := fieldValidate.Var(p.ContactNumber, "ph_local_phone"); err != nil {
		result.AddError("contact_number", "Contact number must be exactly 10 digits")
	}

	if p.Email == "" {
		result.AddError("email", "Email is required")
	} else if err := fieldValidate.Var(p.Email, "email"); err != nil {
		result.AddError("email", "Email is not a valid address")
	}

	if len(p.Description) > MaxDescriptionLength {
		result.AddError("description", fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLength))
	}

	if p.YearEstablished != 0 && (p.YearEstablished < MinYearEstablished || p.YearEstablished > now.Year()) {
		result.AddError("year_established", fmt.Sprintf("Year established must be between %d and %d", MinYearEstablished, now.Year()))
	}
	if p.DTINumber < 0 {
		result.AddError("dti_number", "DTI number must not be negative")
	}

	// Coordinates come in pairs
	switch {
	case (p.Latitude == nil) != (p.Longitude == nil):
		result.AddError("latitude", "Latitude and longitude must be provided together")
	case p.Latitude != nil:
		if *p.Latitude < -90 || *p.Latitude > 90 {
			result.AddError("latitude", "Latitude must be between -90 and 90")
		}
		if *p.Longitude < -180 || *p.Longitude > 180 {
			result.AddError("longitude", "Longitude must be between -180 and 180")
		}
	}

	validateURL(result, "logo_url", p.LogoURL)
	if p.FacebookURL != nil {
		validateURL(result, "facebook_url", *p.FacebookURL)
	}
	if p.InstagramURL != nil {
		validateURL(result, "instagram_url", *p.InstagramURL)
	}
	for i, u := range p.ProductGallery {
		validateURL(result, fmt.Sprintf("product_gallery[%d]", i), u)
	}

	return result
}

// ValidateAdminAccount validates a normalized admin account request
func ValidateAdminAccount(r models.AdminAccountRequest) *ValidationResult {
	result := NewValidationResult()

	if r.Username == "" {
		result.AddError("username", "Username is required")
	} else if err := fieldValidate.Var(r.Username, "min=3,max=64,username"); err != nil {
		result.AddError("username", "Username must be 3-64 characters of letters, digits, dots, dashes or underscores")
	}
	if r.Email == "" {
		result.AddError("email", "Email is required")
	} else if err := fieldValidate.Var(r.Email, "email"); err != nil {
		result.AddError("email", "Email is not a valid address")
	}
	if !models.IsValidRole(r.Role) {
		result.AddError("role", "Role must be admin or superadmin")
	}
	if r.Role == models.RoleAdmin && r.SectorID <= 0 {
		result.AddError("sector_id", "Sector is required for sector admins")
	}

	return result
}

// SanitizeString trims surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

func validateURL(result *ValidationResult, field, value string) {
	if value == "" {
		return
	}
	if err := fieldValidate.Var(value, "url"); err != nil {
		result.AddError(field, "Must be a valid URL")
	}
}
