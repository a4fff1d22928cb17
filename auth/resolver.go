package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/civic-sense/civicsense-be/store"
)

// Resolver turns a bearer credential into a Principal. The profile row
// in the user store is authoritative for role and jurisdiction; the
// identity's own metadata is the fallback for accounts provisioned
// without a profile row yet.
type Resolver struct {
	Provider IdentityProvider
	Users    store.UserStore
}

// Resolve returns (nil, nil) when no credential is present, an error
// wrapping ErrInvalidToken when verification fails, and a Principal
// otherwise. Callers decide whether a missing principal is fatal.
func (r *Resolver) Resolve(ctx context.Context, authorizationHeader string) (*Principal, error) {
	token, ok := bearerToken(authorizationHeader)
	if !ok {
		return nil, nil
	}

	identity, err := r.Provider.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	principal := &Principal{UserID: identity.ID}

	user, err := r.Users.FindByID(ctx, identity.ID)
	switch {
	case err == nil:
		principal.Role = NormalizeRole(user.Role)
		principal.JurisdictionCodes = ParseJurisdictionCodes(user.DistrictCode)
	case errors.Is(err, store.ErrNotFound):
		meta := identity.Metadata
		roleVal, _ := meta["role"].(string)
		principal.Role = NormalizeRole(roleVal)
		district := meta["district_code"]
		if district == nil {
			district = meta["pincode"]
		}
		principal.JurisdictionCodes = ParseJurisdictionCodes(district)
	default:
		return nil, err
	}

	return principal, nil
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}
