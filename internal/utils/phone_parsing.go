package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhilippineCountryCode is implied for every stored contact number
const PhilippineCountryCode = "63"

var localPhoneRegex = regexp.MustCompile(`^[0-9]{10}$`)

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	CountryCode string `json:"country_code"`
	Local       string `json:"local"`
	Full        string `json:"full"`
}

// ValidateLocalPhone checks that phone is a 10-digit local number without country code
func ValidateLocalPhone(phone string) error {
	if !localPhoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number format: %s", phone)
	}
	return nil
}

// NormalizeLocalPhone turns user input such as "0917 123 4567" or "+63 917-123-4567" into
// the 10-digit stored form. Input it cannot interpret is returned trimmed.
func NormalizeLocalPhone(phone string) string {
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(clean, "+"+PhilippineCountryCode):
		clean = strings.TrimPrefix(clean, "+"+PhilippineCountryCode)
	case len(clean) == 12 && strings.HasPrefix(clean, PhilippineCountryCode):
		clean = strings.TrimPrefix(clean, PhilippineCountryCode)
	case len(clean) == 11 && strings.HasPrefix(clean, "0"):
		clean = clean[1:]
	}
	return clean
}

// ParsePhilippinePhone parses a 10-digit local number with libphonenumber
func ParsePhilippinePhone(local string) (*PhoneComponents, error) {
	if err := ValidateLocalPhone(local); err != nil {
		return nil, err
	}

	num, err := phonenumbers.Parse("+"+PhilippineCountryCode+local, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", local)
	}

	return &PhoneComponents{
		CountryCode: fmt.Sprintf("%d", num.GetCountryCode()),
		Local:       phonenumbers.GetNationalSignificantNumber(num),
		Full:        phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}

// FormatPhilippinePhone renders a stored local number as +63XXXXXXXXXX.
// Numbers libphonenumber does not recognize are still prefixed.
func FormatPhilippinePhone(local string) string {
	if local == "" {
		return ""
	}
	if c, err := ParsePhilippinePhone(local); err == nil {
		return c.Full
	}
	return "+" + PhilippineCountryCode + local
}
