package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

// leaveHandler handles HTTP requests for leave applications and balances.
type leaveHandler struct {
	leaveService portssvc.LeaveSvcFacade
}

func newLeaveHandler(ls portssvc.LeaveSvcFacade) *leaveHandler {
	return &leaveHandler{leaveService: ls}
}

// registerLeaveRoutes registers the leave application and balance routes.
func registerLeaveRoutes(rg *gin.RouterGroup, leaveService portssvc.LeaveSvcFacade) {
	h := newLeaveHandler(leaveService)

	leaves := rg.Group("/leaves")
	{
		leaves.POST("", h.applyForLeave)
		leaves.GET("", h.listMyLeaves)
		leaves.GET("/assigned", h.listAssignedLeaves)
		leaves.GET("/balances", h.getBalances)
		leaves.GET("/:id", h.getLeave)
		leaves.PATCH("/:id/status", h.updateStatus)
	}
}

// applyForLeave godoc
// @Summary Apply for leave
// @Description Creates a leave application and reserves the days against the balance.
// @Tags leaves
// @Accept json
// @Produce json
// @Param application body dto.ApplyLeaveRequest true "Leave application"
// @Success 201 {object} dto.LeaveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Security BearerAuth
// @Router /leaves [post]
func (h *leaveHandler) applyForLeave(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	app, err := h.leaveService.ApplyForLeave(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLeaveResponse(app))
}

// getLeave godoc
// @Summary Get a leave application
// @Tags leaves
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.LeaveResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /leaves/{id} [get]
func (h *leaveHandler) getLeave(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	app, err := h.leaveService.GetLeaveByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLeaveResponse(app))
}

// listMyLeaves godoc
// @Summary List the user's own leave applications
// @Tags leaves
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLeavesResponse
// @Security BearerAuth
// @Router /leaves [get]
func (h *leaveHandler) listMyLeaves(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.leaveService.ListMyLeaves(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listAssignedLeaves godoc
// @Summary List leave applications awaiting the user's action
// @Tags leaves
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLeavesResponse
// @Security BearerAuth
// @Router /leaves/assigned [get]
func (h *leaveHandler) listAssignedLeaves(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.leaveService.ListAssignedLeaves(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateStatus godoc
// @Summary Change a leave application's status and/or add a comment
// @Tags leaves
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param change body dto.StatusChangeRequest true "Status change"
// @Success 200 {object} dto.LeaveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Security BearerAuth
// @Router /leaves/{id}/status [patch]
func (h *leaveHandler) updateStatus(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var change dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	app, err := h.leaveService.UpdateLeaveStatus(c.Request.Context(), c.Param("id"), change, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLeaveResponse(app))
}

// getBalances godoc
// @Summary Get the user's leave balances for the current year
// @Tags leaves
// @Produce json
// @Success 200 {array} dto.LeaveBalanceResponse
// @Security BearerAuth
// @Router /leaves/balances [get]
func (h *leaveHandler) getBalances(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	balances, err := h.leaveService.GetBalances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = dto.ToLeaveBalanceResponse(b)
	}
	c.JSON(http.StatusOK, resp)
}
