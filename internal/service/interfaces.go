package service

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// SignupServiceInterface defines the interface for the public signup flows
type SignupServiceInterface interface {
	CreateTenantAndOwner(ctx context.Context, req *TenantSignupRequest) (*SignupResponse, error)
	RedeemInvite(ctx context.Context, req *InviteSignupRequest) (*SignupResponse, error)
}

// InviteServiceInterface defines the interface for invite service
type InviteServiceInterface interface {
	IssueInvite(ctx context.Context, req *IssueInviteRequest) (*InviteResponse, error)
}

// UserServiceInterface defines the interface for user service
type UserServiceInterface interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
	ListUsers(ctx context.Context, role string) ([]UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	Me(ctx context.Context) (*MeResponse, error)
	UpdateMe(ctx context.Context, req *UpdateProfileRequest) (*UserResponse, error)
}

// ProjectServiceInterface defines the interface for project service
type ProjectServiceInterface interface {
	ListProjects(ctx context.Context) ([]ProjectResponse, error)
	GetProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error)
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*ProjectResponse, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context, projectID *uuid.UUID) ([]ProjectMemberResponse, error)
	AddMember(ctx context.Context, req *AddMemberRequest) (*ProjectMemberResponse, error)
	RemoveMember(ctx context.Context, id uuid.UUID) error
}

// TaskServiceInterface defines the interface for task service
type TaskServiceInterface interface {
	ListTasks(ctx context.Context, query TaskListQuery) ([]TaskResponse, error)
	GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error)
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	Dashboard(ctx context.Context) (*DashboardResponse, error)
}

// NotificationServiceInterface defines the interface for notification service
type NotificationServiceInterface interface {
	ListNotifications(ctx context.Context) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error)
}

// NotificationDispatcher delivers task events. It is called after the task
// write has committed; a failure never undoes the write.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event TaskEvent) error
}

var (
	_ SignupServiceInterface       = (*SignupService)(nil)
	_ InviteServiceInterface       = (*InviteService)(nil)
	_ UserServiceInterface         = (*UserService)(nil)
	_ ProjectServiceInterface      = (*ProjectService)(nil)
	_ TaskServiceInterface         = (*TaskService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
	_ NotificationDispatcher       = (*InAppDispatcher)(nil)
)
