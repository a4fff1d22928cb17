package auth

import "strings"

// Role is the canonical role of a request principal. Legacy aliases
// ("master", "municipal") are folded into the canonical values by
// NormalizeRole and never escape this package.
type Role string

const (
	RoleAnonymous      Role = "anonymous"
	RoleCitizen        Role = "citizen"
	RoleMunicipalAdmin Role = "municipal_admin"
	RoleMasterAdmin    Role = "master_admin"
)

// AnonymousReporterID is the well-known reporter id attached to issues
// submitted without an authenticated principal.
const AnonymousReporterID = "14015746-53d5-4719-9c3e-bbc18a88fba8"

// NormalizeRole maps a raw role string, including legacy aliases, to a
// canonical Role. Unknown or empty values resolve to citizen: an
// authenticated identity with no assigned role has no admin powers.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "master", "master_admin":
		return RoleMasterAdmin
	case "municipal", "municipal_admin":
		return RoleMunicipalAdmin
	default:
		return RoleCitizen
	}
}

// Principal is the resolved identity for one request. It is built
// fresh per request and never persisted.
type Principal struct {
	UserID            string
	Role              Role
	JurisdictionCodes []string
}

// normalizeCode trims whitespace and strips literal quote characters.
// Every jurisdiction comparison in the system goes through this; a
// divergence here is an access-control bug.
func normalizeCode(code string) string {
	code = strings.ReplaceAll(code, "'", "")
	code = strings.ReplaceAll(code, `"`, "")
	return strings.TrimSpace(code)
}

// ParseJurisdictionCodes normalizes a district assignment into a set of
// clean codes. The assignment may arrive as a comma-separated string
// ("273001, '273002'") or as a sequence, depending on whether it came
// from a profile row or from token metadata.
func ParseJurisdictionCodes(raw interface{}) []string {
	var parts []string
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(parts))
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		code := normalizeCode(p)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
