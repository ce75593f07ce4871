package models

// JWTClaims represents the structure of the JWT token claims
type JWTClaims struct {
	JTI         string   `json:"jti"`
	Exp         int64    `json:"exp"`
	IAT         int64    `json:"iat"`
	ISS         string   `json:"iss"`
	AUD         []string `json:"aud"`
	SUB         string   `json:"sub"`
	TYP         string   `json:"typ"`
	AZP         string   `json:"azp"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	Scope             string `json:"scope"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	// SectorID scopes a sector admin to the MSMEs of one sector
	SectorID int64 `json:"sector_id"`
}

// HasRole reports whether the realm roles contain role
func (c *JWTClaims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Subject returns the preferred username, falling back to the subject claim
func (c *JWTClaims) Subject() string {
	if c == nil {
		return ""
	}
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}
	return c.SUB
}
