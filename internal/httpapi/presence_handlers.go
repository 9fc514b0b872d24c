package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type checkInRequest struct {
	EmployeeID *uint      `json:"employee_id"`
	Date       *string    `json:"date"`
	CheckIn    *time.Time `json:"check_in"`
}

type checkOutRequest struct {
	CheckOut *time.Time `json:"check_out"`
}

func (h *Handler) listPresences(c *gin.Context) {
	presences, err := h.presences.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, presences)
}

func (h *Handler) checkIn(c *gin.Context) {
	var req checkInRequest
	// The body is optional: a bare POST clocks the caller in right now.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, "invalid JSON body")
			return
		}
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		validationError(c, err.Error())
		return
	}

	presence, err := h.presences.CheckIn(c.Request.Context(), currentUser(c), service.CheckInInput{
		EmployeeID: req.EmployeeID,
		Date:       date,
		CheckIn:    req.CheckIn,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presence)
}

func (h *Handler) checkOut(c *gin.Context) {
	presenceID, ok := pathID(c)
	if !ok {
		return
	}

	var req checkOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, "invalid JSON body")
			return
		}
	}

	presence, err := h.presences.CheckOut(c.Request.Context(), currentUser(c), presenceID, req.CheckOut)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, presence)
}

func (h *Handler) deletePresence(c *gin.Context) {
	presenceID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.presences.Delete(c.Request.Context(), currentUser(c), presenceID); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
