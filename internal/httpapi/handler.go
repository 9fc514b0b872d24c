package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

// Handler routes HTTP requests into the resource gateways. It does the
// transport work only: binding, id parsing, status mapping. Every permission
// decision lives in the services.
type Handler struct {
	auth          service.AuthManager
	employees     service.EmployeeManager
	departments   service.DepartmentManager
	roles         service.RoleManager
	managers      service.ManagerAdmin
	tasks         service.TaskManager
	presences     service.PresenceManager
	leaves        service.LeaveManager
	announcements service.AnnouncementManager
	dashboard     service.DashboardManager
	jwtSecret     []byte
	logger        *zap.Logger
}

type Config struct {
	Auth          service.AuthManager
	Employees     service.EmployeeManager
	Departments   service.DepartmentManager
	Roles         service.RoleManager
	Managers      service.ManagerAdmin
	Tasks         service.TaskManager
	Presences     service.PresenceManager
	Leaves        service.LeaveManager
	Announcements service.AnnouncementManager
	Dashboard     service.DashboardManager
	JWTSecret     string
	Logger        *zap.Logger
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		auth:          cfg.Auth,
		employees:     cfg.Employees,
		departments:   cfg.Departments,
		roles:         cfg.Roles,
		managers:      cfg.Managers,
		tasks:         cfg.Tasks,
		presences:     cfg.Presences,
		leaves:        cfg.Leaves,
		announcements: cfg.Announcements,
		dashboard:     cfg.Dashboard,
		jwtSecret:     []byte(cfg.JWTSecret),
		logger:        cfg.Logger,
	}
}

// Register mounts the API routes. Everything except login sits behind the
// bearer-token middleware.
func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/login", h.login)

	authed := api.Group("", h.requireAuth())
	authed.POST("/logout", h.logout)

	me := authed.Group("/me")
	me.GET("", h.me)
	me.PUT("/password", h.updatePassword)
	me.GET("/manager-status", h.managerStatus)
	me.GET("/tasks", h.myTasks)
	me.GET("/presences", h.myPresences)
	me.GET("/leave-requests", h.myLeaveRequests)
	me.GET("/announcements", h.myAnnouncements)

	employees := authed.Group("/employees")
	employees.GET("", h.listEmployees)
	employees.GET("/:id", h.getEmployee)
	employees.POST("", h.createEmployee)
	employees.PUT("/:id", h.updateEmployee)
	employees.DELETE("/:id", h.deleteEmployee)
	employees.POST("/:id/roles", h.assignRoles)

	departments := authed.Group("/departments")
	departments.GET("", h.listDepartments)
	departments.GET("/:id", h.getDepartment)
	departments.POST("", h.createDepartment)
	departments.PUT("/:id", h.updateDepartment)
	departments.DELETE("/:id", h.deleteDepartment)

	roles := authed.Group("/roles")
	roles.GET("", h.listRoles)
	roles.POST("", h.createRole)
	roles.PUT("/:id", h.updateRole)
	roles.DELETE("/:id", h.deleteRole)

	managers := authed.Group("/managers")
	managers.GET("", h.listManagers)
	managers.POST("", h.createManager)
	managers.DELETE("/:id", h.deleteManager)

	tasks := authed.Group("/tasks")
	tasks.GET("", h.listTasks)
	tasks.GET("/:id", h.getTask)
	tasks.POST("", h.createTask)
	tasks.PUT("/:id", h.updateTask)
	tasks.DELETE("/:id", h.deleteTask)

	presences := authed.Group("/presences")
	presences.GET("", h.listPresences)
	presences.POST("/check-in", h.checkIn)
	presences.PUT("/:id/check-out", h.checkOut)
	presences.DELETE("/:id", h.deletePresence)

	leaves := authed.Group("/leave-requests")
	leaves.GET("", h.listLeaveRequests)
	leaves.GET("/statistics", h.leaveStatistics)
	leaves.POST("", h.createLeaveRequest)
	leaves.PUT("/:id/approve", h.approveLeaveRequest)
	leaves.PUT("/:id/reject", h.rejectLeaveRequest)
	leaves.DELETE("/:id", h.deleteLeaveRequest)

	announcements := authed.Group("/announcements")
	announcements.GET("", h.listAnnouncements)
	announcements.GET("/:id", h.getAnnouncement)
	announcements.POST("", h.createAnnouncement)
	announcements.PUT("/:id", h.updateAnnouncement)
	announcements.DELETE("/:id", h.deleteAnnouncement)

	authed.GET("/dashboard/stats", h.dashboardStats)
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	code := apperror.GetCode(err)
	body := gin.H{"error": err.Error(), "code": string(code)}

	switch code {
	case apperror.CodeValidation:
		c.JSON(http.StatusBadRequest, body)
	case apperror.CodeUnauthorized:
		c.JSON(http.StatusUnauthorized, body)
	case apperror.CodeForbidden:
		c.JSON(http.StatusForbidden, body)
	case apperror.CodeNotFound:
		c.JSON(http.StatusNotFound, body)
	case apperror.CodeConflict, apperror.CodeNoDepartment:
		c.JSON(http.StatusConflict, body)
	default:
		h.logger.Error("unexpected error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  string(apperror.CodeInternal),
		})
	}
}

func validationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  string(apperror.CodeValidation),
	})
}

func pathID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		validationError(c, "invalid id")
		return 0, false
	}
	return uint(id64), true
}

const dateLayout = "2006-01-02"

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, errors.New(field + " must be in YYYY-MM-DD format")
	}
	return &parsed, nil
}
