package services

import (
	"fmt"
	"strconv"

	"github.com/iloilo-msme/produkta/internal/listing"
)

// MaxPerPage bounds the per_page query parameter
const MaxPerPage = listing.MaxPageSize

// ValidatePaginationParams validates and parses pagination parameters
func ValidatePaginationParams(pageStr, perPageStr string) (int, int, error) {
	page := 1
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page parameter: must be a positive integer")
		}
		page = p
	}

	perPage := listing.DefaultPageSize
	if perPageStr != "" {
		pp, err := strconv.Atoi(perPageStr)
		if err != nil || pp < 1 || pp > MaxPerPage {
			return 0, 0, fmt.Errorf("invalid per_page parameter: must be between 1 and %d", MaxPerPage)
		}
		perPage = pp
	}

	return page, perPage, nil
}
