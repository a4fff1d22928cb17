package auth

// ListScope describes which issues a principal may list. When All is
// false the result must be restricted to the named districts; an empty
// district set means the principal sees nothing (fail-closed).
type ListScope struct {
	All       bool
	Districts []string
}

// ListIssuesScope decides whether a principal may use the general issue
// list and, if so, under which jurisdiction restriction. Citizens and
// anonymous callers are only served by the phone-scoped lookup.
func ListIssuesScope(p *Principal) (ListScope, bool) {
	switch role(p) {
	case RoleMasterAdmin:
		return ListScope{All: true}, true
	case RoleMunicipalAdmin:
		return ListScope{Districts: p.JurisdictionCodes}, true
	default:
		return ListScope{}, false
	}
}

// CanReadIssue decides whether a principal may read a single issue,
// given that issue's district code. The code is normalized with the
// same rules as jurisdiction assignments; an issue with an empty code
// is visible to master admins only.
func CanReadIssue(p *Principal, districtCode string) bool {
	switch role(p) {
	case RoleMasterAdmin:
		return true
	case RoleMunicipalAdmin:
		code := normalizeCode(districtCode)
		if code == "" {
			return false
		}
		for _, c := range p.JurisdictionCodes {
			if c == code {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// CanUpdateIssue allows any admin role. Updates are deliberately not
// jurisdiction-scoped: a municipal admin may currently mutate issues
// outside its districts. Tightening this needs a product decision.
func CanUpdateIssue(p *Principal) bool {
	r := role(p)
	return r == RoleMunicipalAdmin || r == RoleMasterAdmin
}

// CanDeleteIssue allows master admins only.
func CanDeleteIssue(p *Principal) bool {
	return role(p) == RoleMasterAdmin
}

// CanManageAdmins allows master admins only.
func CanManageAdmins(p *Principal) bool {
	return role(p) == RoleMasterAdmin
}

// CanManageBlogs allows master admins only; blog reads are public and
// never consult the policy.
func CanManageBlogs(p *Principal) bool {
	return role(p) == RoleMasterAdmin
}

func role(p *Principal) Role {
	if p == nil {
		return RoleAnonymous
	}
	return p.Role
}
