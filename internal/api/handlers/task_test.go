package handlers_test

import (
	"net/http"
	"testing"

	"taskflow-backend/internal/api/handlers"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/mocks"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/service"
	"taskflow-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	taskService *mocks.MockTaskServiceInterface
	http        *testutils.HTTPTestSuite
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.taskService = mocks.NewMockTaskServiceInterface(suite.ctrl)

	handler := handlers.NewTaskHandler(suite.taskService)
	suite.http = testutils.SetupHTTPTest()
	tasks := suite.http.Router.Group("/tasks")
	tasks.GET("/dashboard", handler.Dashboard)
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
}

func (suite *TaskHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TaskHandlerTestSuite) TestListTasksPassesFilters() {
	projectID := uuid.New()
	suite.taskService.EXPECT().
		ListTasks(gomock.Any(), service.TaskListQuery{ProjectID: &projectID, Status: "done"}).
		Return([]service.TaskResponse{{ID: uuid.New(), Status: "done"}}, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/tasks?status=done&project_id="+projectID.String(), nil)

	var resp []service.TaskResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &resp)
	assert.Len(suite.T(), resp, 1)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskAssigneeOutsideHierarchy() {
	suite.taskService.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewRuleValidationError("assigned_to", rbac.ReasonNotInHierarchy,
			"Manager can only assign tasks to their employees."))

	assignee := uuid.New()
	w := suite.http.MakeRequest(http.MethodPost, "/tasks", service.CreateTaskRequest{
		ProjectID: uuid.New(), Title: "Ship it", AssignedTo: &assignee,
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	body := decodeError(suite.T(), w)
	assert.Equal(suite.T(), "assigned_to", body.Field)
	assert.Equal(suite.T(), rbac.ReasonNotInHierarchy, body.Reason)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	suite.taskService.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		Return(&service.TaskResponse{ID: uuid.New(), Title: "Ship it", AssignedToName: "Unassigned"}, nil)

	w := suite.http.MakeRequest(http.MethodPost, "/tasks", service.CreateTaskRequest{ProjectID: uuid.New(), Title: "Ship it"})

	var resp service.TaskResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusCreated, &resp)
	assert.Equal(suite.T(), "Ship it", resp.Title)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskForbidden() {
	id := uuid.New()
	suite.taskService.EXPECT().UpdateTask(gomock.Any(), id, gomock.Any()).
		Return(nil, apperrors.NewAuthorizationError(rbac.ReasonSuperAdminProtected, "Admins cannot manage Super Admin accounts."))

	w := suite.http.MakeRequest(http.MethodPatch, "/tasks/"+id.String(), map[string]string{"status": "done"})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskNotFound() {
	id := uuid.New()
	suite.taskService.EXPECT().DeleteTask(gomock.Any(), id).Return(apperrors.ErrTaskNotFound)

	w := suite.http.MakeRequest(http.MethodDelete, "/tasks/"+id.String(), nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDashboardIsNotAnID() {
	suite.taskService.EXPECT().Dashboard(gomock.Any()).Return(&service.DashboardResponse{
		Metrics:      service.DashboardMetrics{TotalTasks: 3, CompletedTasks: 1},
		Distribution: map[string]int{"todo": 2, "done": 1},
	}, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/tasks/dashboard", nil)

	var resp service.DashboardResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &resp)
	assert.Equal(suite.T(), 3, resp.Metrics.TotalTasks)
	assert.Equal(suite.T(), 2, resp.Distribution["todo"])
}

func (suite *TaskHandlerTestSuite) TestMissingTenantIsBadRequest() {
	suite.taskService.EXPECT().ListTasks(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewInvalidContextError("list tasks"))

	w := suite.http.MakeRequest(http.MethodGet, "/tasks", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "invalid_context", decodeError(suite.T(), w).Reason)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
