package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) listDepartments(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *Handler) getDepartment(c *gin.Context) {
	departmentID, ok := pathID(c)
	if !ok {
		return
	}

	department, err := h.departments.Get(c.Request.Context(), currentUser(c), departmentID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, department)
}

func (h *Handler) createDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	department, err := h.departments.Create(c.Request.Context(), currentUser(c), service.CreateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, department)
}

func (h *Handler) updateDepartment(c *gin.Context) {
	departmentID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	department, err := h.departments.Update(c.Request.Context(), currentUser(c), departmentID, service.UpdateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, department)
}

func (h *Handler) deleteDepartment(c *gin.Context) {
	departmentID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.departments.Delete(c.Request.Context(), currentUser(c), departmentID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) listRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *Handler) createRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	role, err := h.roles.Create(c.Request.Context(), currentUser(c), service.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *Handler) updateRole(c *gin.Context) {
	roleID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	role, err := h.roles.Update(c.Request.Context(), currentUser(c), roleID, service.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *Handler) deleteRole(c *gin.Context) {
	roleID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.roles.Delete(c.Request.Context(), currentUser(c), roleID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createManagerRequest struct {
	EmployeeID   uint  `json:"employee_id"`
	DepartmentID *uint `json:"department_id"`
}

func (h *Handler) listManagers(c *gin.Context) {
	managers, err := h.managers.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

func (h *Handler) createManager(c *gin.Context) {
	var req createManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	manager, err := h.managers.Create(c.Request.Context(), currentUser(c), service.CreateManagerInput{
		EmployeeID:   req.EmployeeID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, manager)
}

func (h *Handler) deleteManager(c *gin.Context) {
	managerID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.managers.Delete(c.Request.Context(), currentUser(c), managerID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
