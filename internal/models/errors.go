package models

import "errors"

// Error constants for directory operations
var (
	ErrMSMENotFound      = errors.New("msme not found")
	ErrDuplicateName     = errors.New("company name already exists")
	ErrSectorNotFound    = errors.New("sector not found")
	ErrInvalidSectorName = errors.New("invalid sector name")
	ErrSectorNameTooLong = errors.New("sector name too long (max 100 characters)")
	ErrSectorNameExists  = errors.New("sector name already exists")
	ErrSectorInUse       = errors.New("cannot delete sector with msmes")
	ErrAdminNotFound     = errors.New("admin account not found")
	ErrUsernameExists    = errors.New("username already exists")
	ErrForbiddenSector   = errors.New("msme belongs to another sector")
	ErrInvalidIDList     = errors.New("invalid id list")
	ErrNothingToExport   = errors.New("nothing to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
