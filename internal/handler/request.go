package handler

import (
	"net/http"
	"strconv"

	"github.com/forgo/fetch/api/internal/middleware"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/service"
)

// RequestHandler handles service request endpoints
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequest handles POST /v1/requests - create a service request
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateRequestInput
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	request, err := h.requestService.CreateRequest(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create request"))
		return
	}

	WriteData(w, http.StatusCreated, request, map[string]string{
		"self": "/v1/requests/" + request.ID,
	})
}

// GetRequest handles GET /v1/requests/{requestId} - get a single request
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	request, err := h.requestService.GetRequest(r.Context(), requestID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get request"))
		return
	}

	WriteData(w, http.StatusOK, request, map[string]string{
		"self": "/v1/requests/" + requestID,
	})
}

// ListRequests handles GET /v1/requests - browse requests with cursor pagination.
// Query parameters: type (optional kind filter), cursor (opaque token from a
// previous page), limit.
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, model.NewBadRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	page, err := h.requestService.ListRequests(r.Context(), q.Get("type"), q.Get("cursor"), limit)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list requests"))
		return
	}

	pagination := &PaginationInfo{HasMore: page.HasMore}
	if page.NextCursor != nil {
		pagination.Cursor = *page.NextCursor
	}

	WriteCollection(w, http.StatusOK, page.Items, pagination, map[string]string{
		"self": "/v1/requests",
	})
}

// GetMyRequests handles GET /v1/profile/requests - list own requests
func (h *RequestHandler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requests, err := h.requestService.ListUserRequests(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list own requests"))
		return
	}

	WriteCollection(w, http.StatusOK, requests, nil, map[string]string{
		"self": "/v1/profile/requests",
	})
}

// GetUserRequests handles GET /v1/users/{userId}/requests - list a user's requests
func (h *RequestHandler) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	requests, err := h.requestService.ListUserRequests(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list user requests"))
		return
	}

	WriteCollection(w, http.StatusOK, requests, nil, map[string]string{
		"self": "/v1/users/" + userID + "/requests",
	})
}

// UpdateRequest handles PATCH /v1/requests/{requestId} - update title or description
func (h *RequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	var req model.UpdateRequestInput
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	request, err := h.requestService.UpdateRequest(r.Context(), userID, requestID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "update request"))
		return
	}

	WriteData(w, http.StatusOK, request, map[string]string{
		"self": "/v1/requests/" + requestID,
	})
}

// DeleteRequest handles DELETE /v1/requests/{requestId} - delete a request
func (h *RequestHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	if err := h.requestService.DeleteRequest(r.Context(), userID, requestID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "delete request"))
		return
	}

	WriteNoContent(w)
}
