package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type createEmployeeRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	ContractType string  `json:"contract_type"`
	HireDate     string  `json:"hire_date"`
	SalaryBase   float64 `json:"salary_base"`
	DepartmentID *uint   `json:"department_id"`
	RoleIDs      []uint  `json:"role_ids"`
}

type updateEmployeeRequest struct {
	FirstName    *string      `json:"first_name"`
	LastName     *string      `json:"last_name"`
	Email        *string      `json:"email"`
	Phone        *string      `json:"phone"`
	ContractType *string      `json:"contract_type"`
	HireDate     *string      `json:"hire_date"`
	SalaryBase   *float64     `json:"salary_base"`
	DepartmentID optionalUint `json:"department_id"`
	RoleIDs      *[]uint      `json:"role_ids"`
	Status       *string      `json:"status"`
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *Handler) getEmployee(c *gin.Context) {
	employeeID, ok := pathID(c)
	if !ok {
		return
	}

	employee, err := h.employees.Get(c.Request.Context(), currentUser(c), employeeID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) createEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	hireDate, err := parseDate(&req.HireDate, "hire_date")
	if err != nil {
		validationError(c, err.Error())
		return
	}
	if hireDate == nil {
		validationError(c, "hire_date is required")
		return
	}

	created, err := h.employees.Create(c.Request.Context(), currentUser(c), service.CreateEmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		ContractType: req.ContractType,
		HireDate:     *hireDate,
		SalaryBase:   req.SalaryBase,
		DepartmentID: req.DepartmentID,
		RoleIDs:      req.RoleIDs,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateEmployee(c *gin.Context) {
	employeeID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	hireDate, err := parseDate(req.HireDate, "hire_date")
	if err != nil {
		validationError(c, err.Error())
		return
	}

	input := service.UpdateEmployeeInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		ContractType:    req.ContractType,
		HireDate:        hireDate,
		SalaryBase:      req.SalaryBase,
		DepartmentID:    req.DepartmentID.Value,
		DepartmentIDSet: req.DepartmentID.Set,
		Status:          req.Status,
	}
	if req.RoleIDs != nil {
		input.RoleIDs = *req.RoleIDs
		input.RoleIDsSet = true
	}

	employee, err := h.employees.Update(c.Request.Context(), currentUser(c), employeeID, input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	employeeID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.employees.Delete(c.Request.Context(), currentUser(c), employeeID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type assignRolesRequest struct {
	RoleIDs []uint `json:"role_ids"`
}

func (h *Handler) assignRoles(c *gin.Context) {
	employeeID, ok := pathID(c)
	if !ok {
		return
	}

	var req assignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	employee, err := h.roles.AssignToEmployee(c.Request.Context(), currentUser(c), employeeID, req.RoleIDs)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}
