package models

import (
	"strings"
	"time"
)

// Admin account roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AdminAccount is the portal profile of an administrator. Credentials live in the identity provider.
type AdminAccount struct {
	ID        int64     `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	FullName  string    `bson:"full_name" json:"full_name"`
	Role      string    `bson:"role" json:"role"`
	SectorID  int64     `bson:"sector_id,omitempty" json:"sector_id,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AdminAccountRequest represents the request body for creating/updating an admin account
type AdminAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	SectorID int64  `json:"sector_id"`
	Active   *bool  `json:"active"`
}

// AdminAccountListResponse represents a paginated list of admin accounts
type AdminAccountListResponse struct {
	Accounts   []AdminAccount `json:"accounts"`
	Pagination PaginationInfo `json:"pagination"`
	TotalCount int64          `json:"total_count"`
}

// Normalize trims the request and defaults the role to a sector admin
func (r AdminAccountRequest) Normalize() AdminAccountRequest {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = RoleAdmin
	}
	if r.Role == RoleSuperAdmin {
		r.SectorID = 0
	}
	return r
}

// IsValidRole reports whether role is a known admin role
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// NewAdminAccount builds an account from a normalized request. New accounts are active unless stated otherwise.
func NewAdminAccount(id int64, r AdminAccountRequest, now time.Time) AdminAccount {
	a := AdminAccount{ID: id, Active: true, CreatedAt: now}
	a.Apply(r, now)
	return a
}

// Apply overwrites the account profile with the request
func (a *AdminAccount) Apply(r AdminAccountRequest, now time.Time) {
	r = r.Normalize()
	a.Username = r.Username
	a.Email = r.Email
	a.FullName = r.FullName
	a.Role = r.Role
	a.SectorID = r.SectorID
	if r.Active != nil {
		a.Active = *r.Active
	}
	a.UpdatedAt = now
}
