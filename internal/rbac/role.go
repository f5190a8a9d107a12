// Package rbac holds the role hierarchy and the pure authorization rules
// evaluated against it.
package rbac

import "taskflow-backend/internal/database/models"

var weights = map[models.Role]int{
	models.RoleSuperAdmin: 4,
	models.RoleAdmin:      3,
	models.RoleManager:    2,
	models.RoleEmployee:   1,
}

// subordinates is the single role table consulted for user creation,
// invite issuance and project membership.
var subordinates = map[models.Role][]models.Role{
	models.RoleSuperAdmin: {models.RoleAdmin, models.RoleManager, models.RoleEmployee},
	models.RoleAdmin:      {models.RoleManager, models.RoleEmployee},
	models.RoleManager:    {models.RoleEmployee},
	models.RoleEmployee:   {},
}

// Weight returns the rank of a role; unknown roles rank 0.
func Weight(r models.Role) int {
	return weights[r]
}

// CanManage reports whether a strictly outranks b.
func CanManage(a, b models.Role) bool {
	return Weight(a) > Weight(b)
}

// AllowedSubordinateRoles returns the roles r may grant, in descending rank.
func AllowedSubordinateRoles(r models.Role) []models.Role {
	out := make([]models.Role, len(subordinates[r]))
	copy(out, subordinates[r])
	return out
}

// CanAssignRole reports whether actor may grant target.
func CanAssignRole(actor, target models.Role) bool {
	for _, r := range subordinates[actor] {
		if r == target {
			return true
		}
	}
	return false
}
