package authroles

import (
	"strings"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
)

// PrecedenceRoleMapper maps group names to roles case-insensitively.
// A member of several role groups gets the first match in the order
// SUPERVISOR, MAINTENANCE, FRONTDESK; everyone else is CLEANER.
type PrecedenceRoleMapper struct {
	SupervisorGroups  []string
	MaintenanceGroups []string
	FrontdeskGroups   []string
}

// DefaultRoleMapper uses the group names the HotelFlow API ships with.
func DefaultRoleMapper() PrecedenceRoleMapper {
	return PrecedenceRoleMapper{
		SupervisorGroups:  []string{"supervisor"},
		MaintenanceGroups: []string{"maintenance"},
		FrontdeskGroups:   []string{"frontdesk"},
	}
}

// Map returns the highest-precedence role matched by groups, or the default role.
func (m PrecedenceRoleMapper) Map(groups []string) domainauth.Role {
	if len(groups) == 0 {
		return domainauth.DefaultRole
	}
	member := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g = normalize(g); g != "" {
			member[g] = struct{}{}
		}
	}

	ordered := []struct {
		role   domainauth.Role
		groups []string
	}{
		{domainauth.RoleSupervisor, m.SupervisorGroups},
		{domainauth.RoleMaintenance, m.MaintenanceGroups},
		{domainauth.RoleFrontdesk, m.FrontdeskGroups},
	}
	for _, candidate := range ordered {
		for _, g := range candidate.groups {
			if _, ok := member[normalize(g)]; ok {
				return candidate.role
			}
		}
	}
	return domainauth.DefaultRole
}

func normalize(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
