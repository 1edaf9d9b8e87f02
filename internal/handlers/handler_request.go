package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

// kindSlugs maps the URL path segment to the request kind it addresses.
// Leave applications have their own routes because of the balance ledger.
var kindSlugs = map[string]domain.RequestKind{
	"purchase-requests":    domain.KindPurchaseRequest,
	"payment-requests":     domain.KindPaymentRequest,
	"expense-claims":       domain.KindExpenseClaim,
	"advance-requests":     domain.KindAdvanceRequest,
	"rfqs":                 domain.KindRFQ,
	"purchase-orders":      domain.KindPurchaseOrder,
	"goods-received-notes": domain.KindGoodsReceivedNote,
}

// requestHandler handles HTTP requests for the generic request documents.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

func newRequestHandler(rs portssvc.RequestSvcFacade) *requestHandler {
	return &requestHandler{requestService: rs}
}

// registerRequestRoutes registers the per-kind document routes under
// /requests/:kind.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := newRequestHandler(requestService)

	requests := rg.Group("/requests/:kind")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listMyRequests)
		requests.GET("/assigned", h.listAssignedRequests)
		requests.GET("/:id", h.getRequest)
		requests.PATCH("/:id/status", h.updateStatus)
		requests.POST("/:id/copy", h.copyRequest)
		requests.PUT("/:id/comments/:commentID", h.editComment)
		requests.DELETE("/:id/comments/:commentID", h.deleteComment)
	}
}

// resolveKind parses the :kind path segment, writing a 404 when it is not a
// known document type.
func resolveKind(c *gin.Context) (domain.RequestKind, bool) {
	kind, ok := kindSlugs[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown request type"})
		return "", false
	}
	return kind, true
}

func actorID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// createRequest godoc
// @Summary Create a request document
// @Tags requests
// @Accept json
// @Produce json
// @Param kind path string true "Request type slug"
// @Param request body dto.CreateRequestRequest true "Request details"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind} [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.requestService.CreateRequest(c.Request.Context(), kind, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRequestResponse(doc))
}

// getRequest godoc
// @Summary Get a request document
// @Tags requests
// @Produce json
// @Param kind path string true "Request type slug"
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind}/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	doc, err := h.requestService.GetRequestByID(c.Request.Context(), kind, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(doc))
}

// listMyRequests godoc
// @Summary List the user's own request documents
// @Tags requests
// @Produce json
// @Param kind path string true "Request type slug"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListRequestsResponse
// @Security BearerAuth
// @Router /requests/{kind} [get]
func (h *requestHandler) listMyRequests(c *gin.Context) {
	h.list(c, h.requestService.ListMyRequests)
}

// listAssignedRequests godoc
// @Summary List documents awaiting the user's action
// @Tags requests
// @Produce json
// @Param kind path string true "Request type slug"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListRequestsResponse
// @Security BearerAuth
// @Router /requests/{kind}/assigned [get]
func (h *requestHandler) listAssignedRequests(c *gin.Context) {
	h.list(c, h.requestService.ListAssignedRequests)
}

type listFunc func(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)

func (h *requestHandler) list(c *gin.Context, fn listFunc) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := fn(c.Request.Context(), kind, userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateStatus godoc
// @Summary Change a request's status and/or add a comment
// @Tags requests
// @Accept json
// @Produce json
// @Param kind path string true "Request type slug"
// @Param id path string true "Request ID"
// @Param change body dto.StatusChangeRequest true "Status change"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind}/{id}/status [patch]
func (h *requestHandler) updateStatus(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var change dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.requestService.UpdateRequestStatus(c.Request.Context(), kind, c.Param("id"), change, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(doc))
}

// copyRequest godoc
// @Summary Share a request with additional users
// @Tags requests
// @Accept json
// @Produce json
// @Param kind path string true "Request type slug"
// @Param id path string true "Request ID"
// @Param copy body dto.CopyRequestRequest true "Recipient user IDs"
// @Success 200 {object} dto.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind}/{id}/copy [post]
func (h *requestHandler) copyRequest(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CopyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.requestService.CopyRequest(c.Request.Context(), kind, c.Param("id"), userID, req.Recipients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(doc))
}

// editComment godoc
// @Summary Edit a comment
// @Tags requests
// @Accept json
// @Produce json
// @Param kind path string true "Request type slug"
// @Param id path string true "Request ID"
// @Param commentID path string true "Comment ID"
// @Param comment body dto.UpdateCommentRequest true "New comment text"
// @Success 200 {object} dto.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind}/{id}/comments/{commentID} [put]
func (h *requestHandler) editComment(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.requestService.EditComment(c.Request.Context(), kind, c.Param("id"), c.Param("commentID"), req.Text, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(doc))
}

// deleteComment godoc
// @Summary Delete a comment
// @Tags requests
// @Produce json
// @Param kind path string true "Request type slug"
// @Param id path string true "Request ID"
// @Param commentID path string true "Comment ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{kind}/{id}/comments/{commentID} [delete]
func (h *requestHandler) deleteComment(c *gin.Context) {
	kind, ok := resolveKind(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	doc, err := h.requestService.DeleteComment(c.Request.Context(), kind, c.Param("id"), c.Param("commentID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(doc))
}
