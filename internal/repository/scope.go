package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tenantScoped is the single place tenant isolation is applied to reads and
// writes. Every tenant-owned query starts here.
func tenantScoped(ctx context.Context, db *gorm.DB, operation string) (*gorm.DB, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, apperrors.NewInvalidContextError(operation)
	}
	return db.WithContext(ctx).Where(clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "tenant_id"},
		Value:  tenantID,
	}), nil
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func none(q *gorm.DB) *gorm.DB {
	return q.Where("1 = 0")
}

func applyUserFilter(q *gorm.DB, f visibility.UserFilter) *gorm.DB {
	if f.All {
		return q
	}
	if len(f.IDs) == 0 {
		return none(q)
	}
	return q.Where(clause.IN{Column: column("id"), Values: uuidValues(f.IDs)})
}

func applyTaskFilter(q *gorm.DB, f visibility.TaskFilter) *gorm.DB {
	if f.All {
		return q
	}
	if len(f.AssigneeIDs) == 0 {
		return none(q)
	}
	return q.Where(clause.IN{Column: column("assigned_to_id"), Values: uuidValues(f.AssigneeIDs)})
}

func applyProjectFilter(q *gorm.DB, db *gorm.DB, f visibility.ProjectFilter) *gorm.DB {
	if f.All {
		return q
	}
	memberOf := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", f.MemberID)
	return q.Where("projects.id IN (?)", memberOf)
}
