package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. When ctx carries a tenant the user is bound to
// it. Without one only a tenant-less user (the owner at tenant genesis) may
// be created.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	tenantID, ok := tenancy.TenantID(ctx)
	switch {
	case !ok && user.TenantID != nil:
		return apperrors.NewInvalidContextError("create")
	case !ok:
	case user.TenantID == nil:
		user.TenantID = &tenantID
	case *user.TenantID != tenantID:
		return apperrors.NewRuleValidationError("tenant", rbac.ReasonCrossTenant, "User belongs to another tenant.")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID regardless of tenant. Used for
// authentication and view-as resolution, which check tenancy themselves.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email regardless of tenant
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether any user already uses email
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssignTenant binds a tenantless user to a tenant
func (r *UserRepository) AssignTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND tenant_id IS NULL", userID).
		Update("tenant_id", tenantID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetInTenant retrieves a user of the current tenant
func (r *UserRepository) GetInTenant(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetVisible retrieves a user of the current tenant that passes filter
func (r *UserRepository) GetVisible(ctx context.Context, filter visibility.UserFilter, id uuid.UUID) (*models.User, error) {
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := applyUserFilter(q, filter).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindVisible lists users of the current tenant that pass filter, optionally by role
func (r *UserRepository) FindVisible(ctx context.Context, filter visibility.UserFilter, role *models.Role) ([]models.User, error) {
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	q = applyUserFilter(q, filter)
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	var users []models.User
	if err := q.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DirectReports returns ids of users of the current tenant reporting to any of managerIDs
func (r *UserRepository) DirectReports(ctx context.Context, managerIDs []uuid.UUID, roles ...models.Role) ([]uuid.UUID, error) {
	if len(managerIDs) == 0 {
		return nil, nil
	}
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	q = q.Model(&models.User{}).Where(clause.IN{Column: column("reports_to_id"), Values: uuidValues(managerIDs)})
	if len(roles) > 0 {
		values := make([]interface{}, len(roles))
		for i, role := range roles {
			values[i] = role
		}
		q = q.Where(clause.IN{Column: column("role"), Values: values})
	}
	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMany returns users of the current tenant by id, keyed by id
func (r *UserRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := q.Where(clause.IN{Column: column("id"), Values: uuidValues(ids)}).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// Update applies updates to a user of the current tenant
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	q, err := tenantScoped(ctx, r.db, "users")
	if err != nil {
		return err
	}
	res := q.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
