package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

const testSecret = "test-secret"

type stubAuth struct {
	loginFn          func(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
	updatePasswordFn func(ctx context.Context, actor models.User, input service.UpdatePasswordInput) error
	loadUserFn       func(ctx context.Context, userID uint) (models.User, error)
}

func (s stubAuth) Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error) {
	if s.loginFn == nil {
		return service.LoginResult{}, nil
	}
	return s.loginFn(ctx, input)
}

func (s stubAuth) UpdatePassword(ctx context.Context, actor models.User, input service.UpdatePasswordInput) error {
	if s.updatePasswordFn == nil {
		return nil
	}
	return s.updatePasswordFn(ctx, actor, input)
}

func (s stubAuth) LoadUser(ctx context.Context, userID uint) (models.User, error) {
	if s.loadUserFn == nil {
		return models.User{ID: userID, Role: "employee"}, nil
	}
	return s.loadUserFn(ctx, userID)
}

type stubEmployees struct {
	listFn          func(ctx context.Context, actor models.User) ([]service.EmployeeDTO, error)
	getFn           func(ctx context.Context, actor models.User, employeeID uint) (service.EmployeeDTO, error)
	createFn        func(ctx context.Context, actor models.User, input service.CreateEmployeeInput) (service.CreatedEmployee, error)
	updateFn        func(ctx context.Context, actor models.User, employeeID uint, input service.UpdateEmployeeInput) (service.EmployeeDTO, error)
	deleteFn        func(ctx context.Context, actor models.User, employeeID uint) error
	meFn            func(ctx context.Context, actor models.User) (service.EmployeeDTO, error)
	managerStatusFn func(ctx context.Context, actor models.User) (service.ManagerStatus, error)
}

func (s stubEmployees) List(ctx context.Context, actor models.User) ([]service.EmployeeDTO, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actor)
}

func (s stubEmployees) Get(ctx context.Context, actor models.User, employeeID uint) (service.EmployeeDTO, error) {
	if s.getFn == nil {
		return service.EmployeeDTO{}, nil
	}
	return s.getFn(ctx, actor, employeeID)
}

func (s stubEmployees) Create(ctx context.Context, actor models.User, input service.CreateEmployeeInput) (service.CreatedEmployee, error) {
	if s.createFn == nil {
		return service.CreatedEmployee{}, nil
	}
	return s.createFn(ctx, actor, input)
}

func (s stubEmployees) Update(ctx context.Context, actor models.User, employeeID uint, input service.UpdateEmployeeInput) (service.EmployeeDTO, error) {
	if s.updateFn == nil {
		return service.EmployeeDTO{}, nil
	}
	return s.updateFn(ctx, actor, employeeID, input)
}

func (s stubEmployees) Delete(ctx context.Context, actor models.User, employeeID uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, actor, employeeID)
}

func (s stubEmployees) Me(ctx context.Context, actor models.User) (service.EmployeeDTO, error) {
	if s.meFn == nil {
		return service.EmployeeDTO{}, nil
	}
	return s.meFn(ctx, actor)
}

func (s stubEmployees) ManagerStatus(ctx context.Context, actor models.User) (service.ManagerStatus, error) {
	if s.managerStatusFn == nil {
		return service.ManagerStatus{}, nil
	}
	return s.managerStatusFn(ctx, actor)
}

type stubAnnouncements struct {
	listFn   func(ctx context.Context, actor models.User, search string) ([]service.AnnouncementDTO, error)
	myFn     func(ctx context.Context, actor models.User, limit int) ([]service.AnnouncementDTO, error)
	getFn    func(ctx context.Context, actor models.User, announcementID uint) (service.AnnouncementDTO, error)
	createFn func(ctx context.Context, actor models.User, input service.CreateAnnouncementInput) (service.AnnouncementDTO, error)
	updateFn func(ctx context.Context, actor models.User, announcementID uint, input service.UpdateAnnouncementInput) (service.AnnouncementDTO, error)
	deleteFn func(ctx context.Context, actor models.User, announcementID uint) error
}

func (s stubAnnouncements) List(ctx context.Context, actor models.User, search string) ([]service.AnnouncementDTO, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actor, search)
}

func (s stubAnnouncements) MyAnnouncements(ctx context.Context, actor models.User, limit int) ([]service.AnnouncementDTO, error) {
	if s.myFn == nil {
		return nil, nil
	}
	return s.myFn(ctx, actor, limit)
}

func (s stubAnnouncements) Get(ctx context.Context, actor models.User, announcementID uint) (service.AnnouncementDTO, error) {
	if s.getFn == nil {
		return service.AnnouncementDTO{}, nil
	}
	return s.getFn(ctx, actor, announcementID)
}

func (s stubAnnouncements) Create(ctx context.Context, actor models.User, input service.CreateAnnouncementInput) (service.AnnouncementDTO, error) {
	if s.createFn == nil {
		return service.AnnouncementDTO{}, nil
	}
	return s.createFn(ctx, actor, input)
}

func (s stubAnnouncements) Update(ctx context.Context, actor models.User, announcementID uint, input service.UpdateAnnouncementInput) (service.AnnouncementDTO, error) {
	if s.updateFn == nil {
		return service.AnnouncementDTO{}, nil
	}
	return s.updateFn(ctx, actor, announcementID, input)
}

func (s stubAnnouncements) Delete(ctx context.Context, actor models.User, announcementID uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, actor, announcementID)
}

type stubPresences struct {
	listFn     func(ctx context.Context, actor models.User) ([]service.PresenceDTO, error)
	myFn       func(ctx context.Context, actor models.User) ([]service.PresenceDTO, error)
	checkInFn  func(ctx context.Context, actor models.User, input service.CheckInInput) (service.PresenceDTO, error)
	checkOutFn func(ctx context.Context, actor models.User, presenceID uint, at *time.Time) (service.PresenceDTO, error)
	deleteFn   func(ctx context.Context, actor models.User, presenceID uint) error
}

func (s stubPresences) List(ctx context.Context, actor models.User) ([]service.PresenceDTO, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actor)
}

func (s stubPresences) MyPresences(ctx context.Context, actor models.User) ([]service.PresenceDTO, error) {
	if s.myFn == nil {
		return nil, nil
	}
	return s.myFn(ctx, actor)
}

func (s stubPresences) CheckIn(ctx context.Context, actor models.User, input service.CheckInInput) (service.PresenceDTO, error) {
	if s.checkInFn == nil {
		return service.PresenceDTO{}, nil
	}
	return s.checkInFn(ctx, actor, input)
}

func (s stubPresences) CheckOut(ctx context.Context, actor models.User, presenceID uint, at *time.Time) (service.PresenceDTO, error) {
	if s.checkOutFn == nil {
		return service.PresenceDTO{}, nil
	}
	return s.checkOutFn(ctx, actor, presenceID, at)
}

func (s stubPresences) Delete(ctx context.Context, actor models.User, presenceID uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, actor, presenceID)
}

type stubLeaves struct {
	listFn       func(ctx context.Context, actor models.User) ([]service.LeaveRequestDTO, error)
	myFn         func(ctx context.Context, actor models.User) ([]service.LeaveRequestDTO, error)
	createFn     func(ctx context.Context, actor models.User, input service.CreateLeaveRequestInput) (service.LeaveRequestDTO, error)
	approveFn    func(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error)
	rejectFn     func(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error)
	deleteFn     func(ctx context.Context, actor models.User, requestID uint) error
	statisticsFn func(ctx context.Context, actor models.User) (service.LeaveStatistics, error)
}

func (s stubLeaves) List(ctx context.Context, actor models.User) ([]service.LeaveRequestDTO, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actor)
}

func (s stubLeaves) MyLeaveRequests(ctx context.Context, actor models.User) ([]service.LeaveRequestDTO, error) {
	if s.myFn == nil {
		return nil, nil
	}
	return s.myFn(ctx, actor)
}

func (s stubLeaves) Create(ctx context.Context, actor models.User, input service.CreateLeaveRequestInput) (service.LeaveRequestDTO, error) {
	if s.createFn == nil {
		return service.LeaveRequestDTO{}, nil
	}
	return s.createFn(ctx, actor, input)
}

func (s stubLeaves) Approve(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error) {
	if s.approveFn == nil {
		return service.LeaveRequestDTO{}, nil
	}
	return s.approveFn(ctx, actor, requestID, comment)
}

func (s stubLeaves) Reject(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error) {
	if s.rejectFn == nil {
		return service.LeaveRequestDTO{}, nil
	}
	return s.rejectFn(ctx, actor, requestID, comment)
}

func (s stubLeaves) Delete(ctx context.Context, actor models.User, requestID uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, actor, requestID)
}

func (s stubLeaves) Statistics(ctx context.Context, actor models.User) (service.LeaveStatistics, error) {
	if s.statisticsFn == nil {
		return service.LeaveStatistics{}, nil
	}
	return s.statisticsFn(ctx, actor)
}

func newTestRouter(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg.Auth == nil {
		cfg.Auth = stubAuth{}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = testSecret
	}
	cfg.Logger = zap.NewNop()

	router := gin.New()
	NewHandler(cfg).Register(router)
	return router
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(router *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
	return payload
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(t, Config{
		Auth: stubAuth{
			loginFn: func(ctx context.Context, input service.LoginInput) (service.LoginResult, error) {
				assert.Equal(t, "admin@example.com", input.Email)
				return service.LoginResult{
					Token: "signed-token",
					User:  service.UserDTO{ID: 1, Role: "admin"},
				}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/login", "", `{"email":"admin@example.com","password":"secret"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "signed-token", payload["token"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := newTestRouter(t, Config{
		Auth: stubAuth{
			loginFn: func(ctx context.Context, input service.LoginInput) (service.LoginResult, error) {
				return service.LoginResult{}, apperror.New(apperror.CodeUnauthorized, "invalid credentials")
			},
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/login", "", `{"email":"x@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "unauthorized", payload["code"])
}

func TestMissingBearerToken(t *testing.T) {
	router := newTestRouter(t, Config{Employees: stubEmployees{}})

	recorder := doRequest(router, http.MethodGet, "/api/me", "", "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestInvalidToken(t *testing.T) {
	router := newTestRouter(t, Config{Employees: stubEmployees{}})

	recorder := doRequest(router, http.MethodGet, "/api/me", "Bearer not-a-token", "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestTokenSubjectIsReloaded(t *testing.T) {
	var loadedID uint
	router := newTestRouter(t, Config{
		Auth: stubAuth{
			loadUserFn: func(ctx context.Context, userID uint) (models.User, error) {
				loadedID = userID
				return models.User{ID: userID, Role: "employee"}, nil
			},
		},
		Employees: stubEmployees{
			meFn: func(ctx context.Context, actor models.User) (service.EmployeeDTO, error) {
				assert.Equal(t, uint(7), actor.ID)
				return service.EmployeeDTO{ID: 42, FirstName: "Ada"}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/me", bearerToken(t, 7), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, uint(7), loadedID)
}

func TestGetEmployeeNotFound(t *testing.T) {
	router := newTestRouter(t, Config{
		Employees: stubEmployees{
			getFn: func(ctx context.Context, actor models.User, employeeID uint) (service.EmployeeDTO, error) {
				return service.EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
			},
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/employees/5", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetEmployeeInvalidID(t *testing.T) {
	router := newTestRouter(t, Config{Employees: stubEmployees{}})

	recorder := doRequest(router, http.MethodGet, "/api/employees/abc", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateEmployeeRequiresHireDate(t *testing.T) {
	router := newTestRouter(t, Config{Employees: stubEmployees{}})

	recorder := doRequest(router, http.MethodPost, "/api/employees", bearerToken(t, 1),
		`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateEmployeeReturnsTemporaryPassword(t *testing.T) {
	router := newTestRouter(t, Config{
		Employees: stubEmployees{
			createFn: func(ctx context.Context, actor models.User, input service.CreateEmployeeInput) (service.CreatedEmployee, error) {
				assert.Equal(t, "Ada", input.FirstName)
				return service.CreatedEmployee{
					Employee:          service.EmployeeDTO{ID: 3, FirstName: "Ada"},
					TemporaryPassword: "tmp-pass-123",
				}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/employees", bearerToken(t, 1),
		`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","contract_type":"CDI","hire_date":"2024-01-15","salary_base":50000}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "tmp-pass-123", payload["temporary_password"])
}

func TestCheckInConflict(t *testing.T) {
	router := newTestRouter(t, Config{
		Presences: stubPresences{
			checkInFn: func(ctx context.Context, actor models.User, input service.CheckInInput) (service.PresenceDTO, error) {
				return service.PresenceDTO{}, apperror.New(apperror.CodeConflict, "an open check-in already exists for this employee")
			},
		},
	})

	recorder := doRequest(router, http.MethodPost, "/api/presences/check-in", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusConflict, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "conflict", payload["code"])
}

func TestManagerWithoutDepartmentSignal(t *testing.T) {
	router := newTestRouter(t, Config{
		Leaves: stubLeaves{
			listFn: func(ctx context.Context, actor models.User) ([]service.LeaveRequestDTO, error) {
				return nil, apperror.New(apperror.CodeNoDepartment, "manager has no department assigned")
			},
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/leave-requests", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusConflict, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "no_department", payload["code"])
}

func TestApproveLeaveRequestPassesComment(t *testing.T) {
	router := newTestRouter(t, Config{
		Leaves: stubLeaves{
			approveFn: func(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error) {
				assert.Equal(t, uint(9), requestID)
				assert.Equal(t, "enjoy", comment)
				return service.LeaveRequestDTO{ID: 9, Status: models.LeaveStatusApproved}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodPut, "/api/leave-requests/9/approve", bearerToken(t, 1),
		`{"admin_comment":"enjoy"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, string(models.LeaveStatusApproved), payload["status"])
}

func TestAnnouncementSearchQueryIsForwarded(t *testing.T) {
	router := newTestRouter(t, Config{
		Announcements: stubAnnouncements{
			listFn: func(ctx context.Context, actor models.User, search string) ([]service.AnnouncementDTO, error) {
				assert.Equal(t, "meeting", search)
				return []service.AnnouncementDTO{{ID: 1, Title: "Team meeting"}}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodGet, "/api/announcements?search=meeting", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateAnnouncementMarksTargetingTouched(t *testing.T) {
	router := newTestRouter(t, Config{
		Announcements: stubAnnouncements{
			updateFn: func(ctx context.Context, actor models.User, announcementID uint, input service.UpdateAnnouncementInput) (service.AnnouncementDTO, error) {
				assert.True(t, input.TargetingSet)
				assert.NotNil(t, input.DepartmentID)
				assert.Equal(t, uint(4), *input.DepartmentID)
				return service.AnnouncementDTO{ID: announcementID}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodPut, "/api/announcements/2", bearerToken(t, 1),
		`{"department_id":4}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateAnnouncementWithoutTargetingFields(t *testing.T) {
	router := newTestRouter(t, Config{
		Announcements: stubAnnouncements{
			updateFn: func(ctx context.Context, actor models.User, announcementID uint, input service.UpdateAnnouncementInput) (service.AnnouncementDTO, error) {
				assert.False(t, input.TargetingSet)
				return service.AnnouncementDTO{ID: announcementID}, nil
			},
		},
	})

	recorder := doRequest(router, http.MethodPut, "/api/announcements/2", bearerToken(t, 1),
		`{"title":"Updated title"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestDeleteAnnouncementForbidden(t *testing.T) {
	router := newTestRouter(t, Config{
		Announcements: stubAnnouncements{
			deleteFn: func(ctx context.Context, actor models.User, announcementID uint) error {
				return apperror.New(apperror.CodeForbidden, "announcement is outside your scope")
			},
		},
	})

	recorder := doRequest(router, http.MethodDelete, "/api/announcements/3", bearerToken(t, 1), "")

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
