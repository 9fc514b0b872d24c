package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// logout is a client-side operation with stateless tokens; the endpoint
// exists so clients have a uniform call to end a session.
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	profile, err := h.employees.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid JSON body")
		return
	}

	err := h.auth.UpdatePassword(c.Request.Context(), currentUser(c), service.UpdatePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *Handler) managerStatus(c *gin.Context) {
	status, err := h.employees.ManagerStatus(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) myTasks(c *gin.Context) {
	tasks, err := h.tasks.MyTasks(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) myPresences(c *gin.Context) {
	presences, err := h.presences.MyPresences(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, presences)
}

func (h *Handler) myLeaveRequests(c *gin.Context) {
	requests, err := h.leaves.MyLeaveRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) myAnnouncements(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			validationError(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	announcements, err := h.announcements.MyAnnouncements(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcements)
}
