package rbac

import (
	"fmt"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"

	"github.com/google/uuid"
)

// Action names an operation gated by the guard
type Action string

const (
	ActionCreateUser   Action = "create_user"
	ActionInvite       Action = "generate_invite"
	ActionAssignTask   Action = "assign_task"
	ActionAddMember    Action = "add_member"
	ActionRemoveMember Action = "remove_member"
	ActionAccessObject Action = "access_object"
)

// Stable denial reasons
const (
	ReasonRoleNotAssignable     = "role_not_assignable"
	ReasonInvalidRole           = "invalid_role"
	ReasonCrossTenant           = "cross_tenant"
	ReasonNotInHierarchy        = "not_in_hierarchy"
	ReasonEmployeeSelfOnly      = "employee_self_only"
	ReasonTargetRoleNotAllowed  = "target_role_not_manageable"
	ReasonInsufficientRole      = "insufficient_role"
	ReasonSuperAdminProtected   = "super_admin_protected"
	ReasonNotOwner              = "not_owner"
	ReasonUnknownRole           = "unknown_role"
	ReasonUnsupportedTargetKind = "unsupported_target"
)

// Decision is the outcome of a guard check. Field is set when the denial is
// reported against a request field rather than as a policy refusal.
type Decision struct {
	Allowed bool
	Reason  string
	Field   string
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

func denyField(field, reason, message string) Decision {
	return Decision{Reason: reason, Field: field, Message: message}
}

// Err converts a denial into the typed application error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Field != "" {
		return apperrors.NewRuleValidationError(d.Field, d.Reason, d.Message)
	}
	return apperrors.NewAuthorizationError(d.Reason, d.Message)
}

var roleLabels = map[models.Role]string{
	models.RoleSuperAdmin: "Super Admin",
	models.RoleAdmin:      "Admin",
	models.RoleManager:    "Manager",
	models.RoleEmployee:   "Employee",
}

// AuthorizeRoleGrant checks whether actor may create a user, or issue an
// invite, carrying role.
func AuthorizeRoleGrant(actor *models.User, action Action, role models.Role) Decision {
	if !role.IsValid() {
		return denyField("role", ReasonInvalidRole, fmt.Sprintf("%q is not a valid role.", role))
	}
	if _, known := weights[actor.Role]; !known {
		return denyField("role", ReasonUnknownRole, "Unknown requester role.")
	}
	if CanAssignRole(actor.Role, role) {
		return allow()
	}

	verb := "create"
	if action == ActionInvite {
		verb = "invite"
	}
	var msg string
	switch actor.Role {
	case models.RoleSuperAdmin:
		msg = fmt.Sprintf("Super Admin can %s Admin, Manager, or Employee.", verb)
	case models.RoleAdmin:
		msg = fmt.Sprintf("Admin can only %s Manager or Employee.", verb)
	case models.RoleManager:
		msg = fmt.Sprintf("Manager can only %s Employee.", verb)
	default:
		if action == ActionInvite {
			msg = "Employees cannot generate invites."
		} else {
			msg = "Employees cannot create users."
		}
	}
	return denyField("role", ReasonRoleNotAssignable, msg)
}

// AuthorizeTaskAssignment checks whether actor may assign a task to assignee.
func AuthorizeTaskAssignment(actor, assignee *models.User) Decision {
	if actor.TenantID == nil || !assignee.InTenant(*actor.TenantID) {
		return denyField("assigned_to", ReasonCrossTenant, "Cannot assign task outside your tenant.")
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return allow()
	case models.RoleAdmin:
		if assignee.ReportsTo(actor.ID) {
			return allow()
		}
		return denyField("assigned_to", ReasonNotInHierarchy, "Admin can only assign tasks to their managers or employees.")
	case models.RoleManager:
		if assignee.ReportsTo(actor.ID) && assignee.Role == models.RoleEmployee {
			return allow()
		}
		return denyField("assigned_to", ReasonNotInHierarchy, "Manager can only assign tasks to their employees.")
	case models.RoleEmployee:
		if assignee.ID == actor.ID {
			return allow()
		}
		return denyField("assigned_to", ReasonEmployeeSelfOnly, "Employees can only assign tasks to themselves.")
	}
	return denyField("assigned_to", ReasonUnknownRole, "Unknown requester role.")
}

// AuthorizeMembership checks whether actor may add (or remove) member to a
// project with projectRole.
func AuthorizeMembership(actor, member *models.User, action Action, projectRole models.ProjectRole) Decision {
	if !projectRole.IsValid() {
		return denyField("role", ReasonInvalidRole, fmt.Sprintf("%q is not a valid project role.", projectRole))
	}
	if actor.TenantID == nil || !member.InTenant(*actor.TenantID) {
		return deny(ReasonCrossTenant, "Cannot manage members outside your tenant.")
	}

	verb := "assign"
	if action == ActionRemoveMember {
		verb = "remove"
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return allow()
	case models.RoleAdmin:
		if CanAssignRole(actor.Role, member.Role) {
			return allow()
		}
		return deny(ReasonTargetRoleNotAllowed, fmt.Sprintf("Admins can only %s Managers and Employees.", verb))
	case models.RoleManager:
		if CanAssignRole(actor.Role, member.Role) && member.ReportsTo(actor.ID) {
			return allow()
		}
		return deny(ReasonNotInHierarchy, fmt.Sprintf("Managers can only %s employees who report to them.", verb))
	case models.RoleEmployee:
		return deny(ReasonInsufficientRole, "Insufficient permissions")
	}
	return deny(ReasonUnknownRole, "Unknown requester role.")
}

// ObjectKind enumerates the entities object-level checks understand
type ObjectKind int

const (
	ObjectUser ObjectKind = iota + 1
	ObjectTask
	ObjectProject
	ObjectProjectMember
)

// Object is a closed variant over the entities object-level checks accept.
// Only the pointer matching Kind is read; the related users supply the
// reporting line of whoever created or embodies the object.
type Object struct {
	Kind    ObjectKind
	User    *models.User
	Task    *models.Task
	Project *models.Project
	Member  *models.ProjectMember

	Creator  *models.User
	Assignee *models.User
	Subject  *models.User
}

// UserObject wraps a user record
func UserObject(u *models.User) Object {
	return Object{Kind: ObjectUser, User: u}
}

// TaskObject wraps a task along with the users behind assigned_by and assigned_to
func TaskObject(t *models.Task, creator, assignee *models.User) Object {
	return Object{Kind: ObjectTask, Task: t, Creator: creator, Assignee: assignee}
}

// ProjectObject wraps a project along with its creator
func ProjectObject(p *models.Project, creator *models.User) Object {
	return Object{Kind: ObjectProject, Project: p, Creator: creator}
}

// MemberObject wraps a membership along with the member user
func MemberObject(m *models.ProjectMember, subject *models.User) Object {
	return Object{Kind: ObjectProjectMember, Member: m, Subject: subject}
}

type ownership struct {
	tenantID          uuid.UUID
	identityID        *uuid.UUID
	identityRole      models.Role
	identityReportsTo *uuid.UUID
	creatorID         *uuid.UUID
	creatorReportsTo  *uuid.UUID
}

func reportsToOf(u *models.User) *uuid.UUID {
	if u == nil {
		return nil
	}
	return u.ReportsToID
}

func ownershipOf(o Object) (ownership, bool) {
	switch o.Kind {
	case ObjectUser:
		if o.User == nil || o.User.TenantID == nil {
			return ownership{}, false
		}
		id := o.User.ID
		return ownership{
			tenantID:          *o.User.TenantID,
			identityID:        &id,
			identityRole:      o.User.Role,
			identityReportsTo: o.User.ReportsToID,
		}, true
	case ObjectTask:
		if o.Task == nil {
			return ownership{}, false
		}
		return ownership{
			tenantID:          o.Task.TenantID,
			identityID:        o.Task.AssignedToID,
			identityReportsTo: reportsToOf(o.Assignee),
			creatorID:         o.Task.AssignedByID,
			creatorReportsTo:  reportsToOf(o.Creator),
		}, true
	case ObjectProject:
		if o.Project == nil {
			return ownership{}, false
		}
		return ownership{
			tenantID:         o.Project.TenantID,
			creatorID:        o.Project.CreatedByID,
			creatorReportsTo: reportsToOf(o.Creator),
		}, true
	case ObjectProjectMember:
		if o.Member == nil {
			return ownership{}, false
		}
		id := o.Member.UserID
		return ownership{
			tenantID:          o.Member.TenantID,
			identityID:        &id,
			identityReportsTo: reportsToOf(o.Subject),
		}, true
	}
	return ownership{}, false
}

func same(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}

// AuthorizeObject checks whether actor may read or modify o.
func AuthorizeObject(actor *models.User, o Object) Decision {
	own, ok := ownershipOf(o)
	if !ok {
		return deny(ReasonUnsupportedTargetKind, "Unsupported target.")
	}
	if actor.TenantID == nil || own.tenantID != *actor.TenantID {
		return deny(ReasonCrossTenant, "Object belongs to another tenant.")
	}

	switch actor.Role {
	case models.RoleSuperAdmin:
		return allow()
	case models.RoleAdmin:
		if o.Kind == ObjectUser && own.identityRole == models.RoleSuperAdmin {
			return deny(ReasonSuperAdminProtected, "Admins cannot manage Super Admin accounts.")
		}
		return allow()
	case models.RoleManager:
		if same(own.identityID, actor.ID) || same(own.identityReportsTo, actor.ID) {
			return allow()
		}
		if same(own.creatorID, actor.ID) || same(own.creatorReportsTo, actor.ID) {
			return allow()
		}
		return deny(ReasonNotInHierarchy, "Managers can only manage their own or their reports' data.")
	case models.RoleEmployee:
		if same(own.creatorID, actor.ID) || same(own.identityID, actor.ID) {
			return allow()
		}
		return deny(ReasonNotOwner, "Employees can only manage their own data.")
	}
	return deny(ReasonUnknownRole, "Unknown requester role.")
}

// Target is what Authorize evaluates an action against. Role and
// ProjectRole are read only by the actions that need them.
type Target struct {
	Role        models.Role
	ProjectRole models.ProjectRole
	User        *models.User
	Object      Object
}

// Authorize dispatches action to the matching rule.
func Authorize(actor *models.User, action Action, target Target) Decision {
	switch action {
	case ActionCreateUser, ActionInvite:
		return AuthorizeRoleGrant(actor, action, target.Role)
	case ActionAssignTask:
		if target.User == nil {
			return deny(ReasonUnsupportedTargetKind, "Assignee is required.")
		}
		return AuthorizeTaskAssignment(actor, target.User)
	case ActionAddMember, ActionRemoveMember:
		if target.User == nil {
			return deny(ReasonUnsupportedTargetKind, "Member is required.")
		}
		return AuthorizeMembership(actor, target.User, action, target.ProjectRole)
	case ActionAccessObject:
		return AuthorizeObject(actor, target.Object)
	}
	return deny(ReasonUnsupportedTargetKind, fmt.Sprintf("Unsupported action %q.", action))
}
