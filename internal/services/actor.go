package services

import (
	"context"

	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/models"
)

// Actor is the authenticated administrator performing an operation
type Actor struct {
	Subject    string
	SuperAdmin bool
	// SectorID scopes sector admins. Zero for super admins.
	SectorID int64
}

// ActorFromClaims maps token claims onto an Actor using the configured role names
func ActorFromClaims(claims *models.JWTClaims, adminRole, superAdminRole string) (Actor, bool) {
	if claims == nil {
		return Actor{}, false
	}
	switch {
	case claims.HasRole(superAdminRole):
		return Actor{Subject: claims.Subject(), SuperAdmin: true}, true
	case claims.HasRole(adminRole):
		return Actor{Subject: claims.Subject(), SectorID: claims.SectorID}, true
	}
	return Actor{}, false
}

// CanManage reports whether the actor may write MSMEs of sectorID
func (a Actor) CanManage(sectorID int64) bool {
	return a.SuperAdmin || (a.SectorID != 0 && a.SectorID == sectorID)
}

func (a Actor) context(ctx context.Context) context.Context {
	return gateway.WithActor(ctx, a.Subject)
}
