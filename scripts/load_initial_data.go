package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskflow-backend/internal/auth"
	"taskflow-backend/internal/config"
	"taskflow-backend/internal/database"
	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/rbac"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seed file layout. Users, members and tasks refer to users by email.
type SeedFile struct {
	Tenants []TenantData `yaml:"tenants"`
}

type TenantData struct {
	Name     string        `yaml:"name"`
	Plan     string        `yaml:"plan"`
	Users    []UserData    `yaml:"users"`
	Projects []ProjectData `yaml:"projects"`
}

type UserData struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
	Password  string `yaml:"password"`
	ReportsTo string `yaml:"reports_to,omitempty"`
}

type MemberData struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

type TaskData struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Status      string `yaml:"status"`
	AssignedTo  string `yaml:"assigned_to,omitempty"`
	AssignedBy  string `yaml:"assigned_by,omitempty"`
	DueDate     string `yaml:"due_date,omitempty"`
}

type ProjectData struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Status      string       `yaml:"status"`
	CreatedBy   string       `yaml:"created_by"`
	Members     []MemberData `yaml:"members"`
	Tasks       []TaskData   `yaml:"tasks"`
}

type counts struct {
	tenants, users, projects, members, tasks int
}

func main() {
	log.Println("Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	if err := loadDataFromYAMLFiles(db, dataDir); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Initial data loaded successfully")
}

func connectWithRetry(cfg *config.Config, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		Driver:   cfg.DatabaseDriver,
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(cfg.DatabaseURL, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func readSeedFiles(dataDir string) ([]TenantData, error) {
	var tenants []TenantData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var file SeedFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		tenants = append(tenants, file.Tenants...)
		return nil
	})
	return tenants, err
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	tenants, err := readSeedFiles(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read seed files: %w", err)
	}

	var total counts
	for _, data := range tenants {
		err := db.Transaction(func(tx *gorm.DB) error {
			return seedTenant(tx, data, &total)
		})
		if err != nil {
			return fmt.Errorf("tenant %s: %w", data.Name, err)
		}
	}

	log.Printf("Tenants: %d created", total.tenants)
	log.Printf("Users: %d created", total.users)
	log.Printf("Projects: %d created", total.projects)
	log.Printf("Project members: %d created", total.members)
	log.Printf("Tasks: %d created", total.tasks)
	return nil
}

func seedTenant(tx *gorm.DB, data TenantData, total *counts) error {
	tenant, created, err := findOrCreateTenant(tx, data)
	if err != nil {
		return err
	}
	if created {
		total.tenants++
	}

	// Users are created in file order so a manager precedes their reports.
	users := make(map[string]*models.User)
	for _, u := range data.Users {
		user, created, err := findOrCreateUser(tx, tenant, u, users)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		users[user.Email] = user
		if created {
			total.users++
		}
		if user.Role == models.RoleSuperAdmin && tenant.OwnerID == nil {
			tenant.OwnerID = &user.ID
			if err := tx.Model(tenant).Update("owner_id", user.ID).Error; err != nil {
				return err
			}
		}
	}

	for _, p := range data.Projects {
		if err := seedProject(tx, tenant, p, users, total); err != nil {
			return fmt.Errorf("project %s: %w", p.Name, err)
		}
	}
	return nil
}

func findOrCreateTenant(tx *gorm.DB, data TenantData) (*models.Tenant, bool, error) {
	var tenant models.Tenant
	err := tx.Where("name = ?", data.Name).First(&tenant).Error
	if err == nil {
		return &tenant, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to query tenant: %w", err)
	}

	plan := models.Plan(data.Plan)
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.IsValid() {
		return nil, false, fmt.Errorf("invalid plan %q", data.Plan)
	}
	tenant = models.Tenant{Name: data.Name, Plan: plan}
	if err := tx.Create(&tenant).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create tenant: %w", err)
	}
	return &tenant, true, nil
}

func findOrCreateUser(tx *gorm.DB, tenant *models.Tenant, data UserData, known map[string]*models.User) (*models.User, bool, error) {
	email := models.NormalizeEmail(data.Email)

	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		if !user.InTenant(tenant.ID) {
			return nil, false, fmt.Errorf("email already registered in another tenant")
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to query user: %w", err)
	}

	role := models.Role(data.Role)
	if !role.IsValid() {
		return nil, false, fmt.Errorf("invalid role %q", data.Role)
	}
	password := data.Password
	if password == "" {
		password = "changeme123"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user = models.User{
		TenantID:     &tenant.ID,
		Email:        email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	// The manager creates the user, so the role table applies as it does to
	// invites and direct creation.
	switch {
	case data.ReportsTo != "":
		manager := known[models.NormalizeEmail(data.ReportsTo)]
		if manager == nil {
			return nil, false, fmt.Errorf("reports_to %s is not listed before this user", data.ReportsTo)
		}
		if !rbac.CanAssignRole(manager.Role, role) {
			return nil, false, fmt.Errorf("%s %s may not create role %s", manager.Role, manager.Email, role)
		}
		user.ReportsToID = &manager.ID
		user.CreatedByID = &manager.ID
	case role != models.RoleSuperAdmin:
		return nil, false, fmt.Errorf("%s needs reports_to", role)
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, true, nil
}

func lookupUser(users map[string]*models.User, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	u := users[models.NormalizeEmail(email)]
	if u == nil {
		return nil, fmt.Errorf("unknown user %s", email)
	}
	return &u.ID, nil
}

func seedProject(tx *gorm.DB, tenant *models.Tenant, data ProjectData, users map[string]*models.User, total *counts) error {
	creatorID, err := lookupUser(users, data.CreatedBy)
	if err != nil {
		return err
	}

	var project models.Project
	err = tx.Where("tenant_id = ? AND name = ?", tenant.ID, data.Name).First(&project).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status := models.ProjectStatus(data.Status)
		if status == "" {
			status = models.ProjectStatusActive
		}
		project = models.Project{
			Name:        data.Name,
			Description: data.Description,
			Status:      status,
			CreatedByID: creatorID,
		}
		project.TenantID = tenant.ID
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		total.projects++
	case err != nil:
		return fmt.Errorf("failed to query project: %w", err)
	default:
		// existing project: members and tasks were seeded with it
		return nil
	}

	for _, m := range data.Members {
		userID, err := lookupUser(users, m.Email)
		if err != nil {
			return err
		}
		role := models.ProjectRole(m.Role)
		if role == "" {
			role = models.ProjectRoleEmployee
		}
		member := models.ProjectMember{ProjectID: project.ID, UserID: *userID, Role: role}
		member.TenantID = tenant.ID
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add member %s: %w", m.Email, err)
		}
		total.members++
	}

	for _, t := range data.Tasks {
		task, err := buildTask(tenant, &project, t, users)
		if err != nil {
			return fmt.Errorf("task %s: %w", t.Title, err)
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task %s: %w", t.Title, err)
		}
		total.tasks++
	}
	return nil
}

func buildTask(tenant *models.Tenant, project *models.Project, data TaskData, users map[string]*models.User) (*models.Task, error) {
	assignedTo, err := lookupUser(users, data.AssignedTo)
	if err != nil {
		return nil, err
	}
	assignedBy, err := lookupUser(users, data.AssignedBy)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:    project.ID,
		Title:        data.Title,
		Description:  data.Description,
		Priority:     models.TaskPriority(data.Priority),
		Status:       models.TaskStatus(data.Status),
		AssignedToID: assignedTo,
		AssignedByID: assignedBy,
	}
	task.TenantID = tenant.ID
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if data.DueDate != "" {
		due, err := time.Parse("2006-01-02", data.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date %q", data.DueDate)
		}
		task.DueDate = &due
	}
	return task, nil
}
