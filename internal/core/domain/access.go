package domain

// tierRank orders visibility tiers from least to most restricted. Unknown
// tiers are absent from the map and fail closed in CanView.
var tierRank = map[Visibility]int{
	VisibilityPublic:     0,
	VisibilityInternal:   1,
	VisibilityRestricted: 2,
}

// roleCeiling is the most restricted tier each role may view. Unknown roles
// are treated as anonymous.
var roleCeiling = map[Role]Visibility{
	RoleAnonymous:  VisibilityPublic,
	RoleInternal:   VisibilityInternal,
	RoleAdmin:      VisibilityRestricted,
	RoleSuperAdmin: VisibilityRestricted,
}

// CanView reports whether a caller with the given role may view a post with
// the given visibility tier. An unrecognized visibility resolves to the most
// restrictive policy: only super_admin may view it.
func CanView(visibility Visibility, role Role) bool {
	rank, known := tierRank[visibility]
	if !known {
		return role == RoleSuperAdmin
	}
	ceiling, ok := roleCeiling[role]
	if !ok {
		ceiling = VisibilityPublic
	}
	return rank <= tierRank[ceiling]
}

// ListFilter returns the visibility tiers a caller with the given role is
// entitled to receive from a listing. Derived from the same table as CanView;
// listing paths re-check each item with CanView as defense in depth.
func ListFilter(role Role) []Visibility {
	ceiling, ok := roleCeiling[role]
	if !ok {
		ceiling = VisibilityPublic
	}
	tiers := make([]Visibility, 0, 3)
	for _, v := range []Visibility{VisibilityPublic, VisibilityInternal, VisibilityRestricted} {
		if tierRank[v] <= tierRank[ceiling] {
			tiers = append(tiers, v)
		}
	}
	return tiers
}
