package handler

import (
	"net/http"

	"github.com/forgo/fetch/api/internal/middleware"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/service"
)

// FavoriteHandler handles favorite endpoints
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// CreateFavorite handles POST /v1/favorites - favorite a request.
// Favoriting an already favorited request returns the existing favorite
// with 200 instead of 201.
func (h *FavoriteHandler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateFavoriteInput
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	favorite, created, err := h.favoriteService.CreateFavorite(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create favorite"))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	WriteData(w, status, favorite, map[string]string{
		"self":    "/v1/favorites/" + favorite.ID,
		"request": "/v1/requests/" + favorite.RequestID,
	})
}

// GetFavorite handles GET /v1/favorites/{favoriteId} - get one of the user's favorites
func (h *FavoriteHandler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	favoriteID := r.PathValue("favoriteId")
	if favoriteID == "" {
		WriteError(w, model.NewBadRequestError("favorite ID required"))
		return
	}

	favorite, err := h.favoriteService.GetFavorite(r.Context(), userID, favoriteID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get favorite"))
		return
	}

	WriteData(w, http.StatusOK, favorite, map[string]string{
		"self":    "/v1/favorites/" + favoriteID,
		"request": "/v1/requests/" + favorite.RequestID,
	})
}

// DeleteFavorite handles DELETE /v1/favorites/{favoriteId} - remove a favorite
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	favoriteID := r.PathValue("favoriteId")
	if favoriteID == "" {
		WriteError(w, model.NewBadRequestError("favorite ID required"))
		return
	}

	if err := h.favoriteService.DeleteFavorite(r.Context(), userID, favoriteID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "delete favorite"))
		return
	}

	WriteNoContent(w)
}

// GetMyFavorites handles GET /v1/profile/favorites - list own favorites
func (h *FavoriteHandler) GetMyFavorites(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	favorites, err := h.favoriteService.ListFavorites(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list favorites"))
		return
	}

	WriteCollection(w, http.StatusOK, favorites, nil, map[string]string{
		"self": "/v1/profile/favorites",
	})
}
