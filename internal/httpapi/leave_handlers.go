package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type createLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Message   string `json:"message"`
}

type leaveDecisionRequest struct {
	Comment string `json:"admin_comment"`
}

func (h *Handler) listLeaveRequests(c *gin.Context) {
	requests, err := h.leaves.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) createLeaveRequest(c *gin.Context) {
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	startDate, err := parseDate(&req.StartDate, "start_date")
	if err != nil {
		validationError(c, err.Error())
		return
	}
	endDate, err := parseDate(&req.EndDate, "end_date")
	if err != nil {
		validationError(c, err.Error())
		return
	}
	if startDate == nil || endDate == nil {
		validationError(c, "start_date and end_date are required")
		return
	}

	request, err := h.leaves.Create(c.Request.Context(), currentUser(c), service.CreateLeaveRequestInput{
		Type:      req.Type,
		StartDate: *startDate,
		EndDate:   *endDate,
		Message:   req.Message,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *Handler) approveLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, h.leaves.Approve)
}

func (h *Handler) rejectLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, h.leaves.Reject)
}

func (h *Handler) decideLeaveRequest(c *gin.Context, decide func(ctx context.Context, actor models.User, requestID uint, comment string) (service.LeaveRequestDTO, error)) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}

	var req leaveDecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, "invalid JSON body")
			return
		}
	}

	request, err := decide(c.Request.Context(), currentUser(c), requestID, req.Comment)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *Handler) deleteLeaveRequest(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.leaves.Delete(c.Request.Context(), currentUser(c), requestID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) leaveStatistics(c *gin.Context) {
	stats, err := h.leaves.Statistics(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
