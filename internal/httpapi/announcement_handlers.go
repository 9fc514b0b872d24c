package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type createAnnouncementRequest struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	EmployeeID   *uint  `json:"employee_id"`
	DepartmentID *uint  `json:"department_id"`
	IsGeneral    bool   `json:"is_general"`
}

type updateAnnouncementRequest struct {
	Title        *string      `json:"title"`
	Message      *string      `json:"message"`
	EmployeeID   optionalUint `json:"employee_id"`
	DepartmentID optionalUint `json:"department_id"`
	IsGeneral    *bool        `json:"is_general"`
}

func (h *Handler) listAnnouncements(c *gin.Context) {
	announcements, err := h.announcements.List(c.Request.Context(), currentUser(c), c.Query("search"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcements)
}

func (h *Handler) getAnnouncement(c *gin.Context) {
	announcementID, ok := pathID(c)
	if !ok {
		return
	}

	announcement, err := h.announcements.Get(c.Request.Context(), currentUser(c), announcementID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

func (h *Handler) createAnnouncement(c *gin.Context) {
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	announcement, err := h.announcements.Create(c.Request.Context(), currentUser(c), service.CreateAnnouncementInput{
		Title:        req.Title,
		Message:      req.Message,
		EmployeeID:   req.EmployeeID,
		DepartmentID: req.DepartmentID,
		IsGeneral:    req.IsGeneral,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

func (h *Handler) updateAnnouncement(c *gin.Context) {
	announcementID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	input := service.UpdateAnnouncementInput{
		Title:        req.Title,
		Message:      req.Message,
		IsGeneral:    req.IsGeneral,
		TargetingSet: req.IsGeneral != nil || req.EmployeeID.Set || req.DepartmentID.Set,
	}
	if req.EmployeeID.Set {
		input.EmployeeID = req.EmployeeID.Value
	}
	if req.DepartmentID.Set {
		input.DepartmentID = req.DepartmentID.Value
	}

	announcement, err := h.announcements.Update(c.Request.Context(), currentUser(c), announcementID, input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	announcementID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.announcements.Delete(c.Request.Context(), currentUser(c), announcementID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
