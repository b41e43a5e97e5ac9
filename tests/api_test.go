package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/fetch/api/internal/handler"
	"github.com/forgo/fetch/api/internal/middleware"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/repository"
	"github.com/forgo/fetch/api/internal/service"
	"github.com/forgo/fetch/api/internal/testing/fixtures"
	"github.com/forgo/fetch/api/internal/testing/helpers"
	"github.com/forgo/fetch/api/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: HTTP API Surface
DOMAIN: Transport

ACCEPTANCE CRITERIA:
===================

AC-API-001: Requests Require Authentication
AC-API-002: Create Request Over HTTP Returns Flat JSON
AC-API-003: Validation Failures Return Problem Details
AC-API-004: Missing Request Returns 404 Problem
AC-API-005: Browse Listing Carries Pagination Envelope
AC-API-006: Favorite Lifecycle Over HTTP
*/

// newAPIServer wires handlers the way cmd/server does, minus the outer
// logging and CORS layers, and returns the mux alongside a token service
// sharing the same signing key.
func newAPIServer(t *testing.T, tdb *testdb.TestDB) (http.Handler, *service.TokenService) {
	t.Helper()

	jwtService := helpers.NewTestJWTService(t)
	tokenService := service.NewTokenService(service.TokenServiceConfig{JWTService: jwtService})

	requestService := service.NewRequestService(service.RequestServiceConfig{
		RequestRepo: repository.NewRequestRepository(tdb.DB),
	})
	favoriteService := service.NewFavoriteService(service.FavoriteServiceConfig{
		FavoriteRepo: repository.NewFavoriteRepository(tdb.DB),
		RequestRepo:  repository.NewRequestRepository(tdb.DB),
	})

	requestHandler := handler.NewRequestHandler(requestService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	auth := middleware.Auth(tokenService)

	mux := http.NewServeMux()
	mux.Handle("POST /v1/requests", auth(http.HandlerFunc(requestHandler.CreateRequest)))
	mux.Handle("GET /v1/requests", auth(http.HandlerFunc(requestHandler.ListRequests)))
	mux.Handle("GET /v1/requests/{requestId}", auth(http.HandlerFunc(requestHandler.GetRequest)))
	mux.Handle("PATCH /v1/requests/{requestId}", auth(http.HandlerFunc(requestHandler.UpdateRequest)))
	mux.Handle("DELETE /v1/requests/{requestId}", auth(http.HandlerFunc(requestHandler.DeleteRequest)))
	mux.Handle("GET /v1/profile/requests", auth(http.HandlerFunc(requestHandler.GetMyRequests)))
	mux.Handle("GET /v1/users/{userId}/requests", auth(http.HandlerFunc(requestHandler.GetUserRequests)))
	mux.Handle("POST /v1/favorites", auth(http.HandlerFunc(favoriteHandler.CreateFavorite)))
	mux.Handle("GET /v1/favorites/{favoriteId}", auth(http.HandlerFunc(favoriteHandler.GetFavorite)))
	mux.Handle("DELETE /v1/favorites/{favoriteId}", auth(http.HandlerFunc(favoriteHandler.DeleteFavorite)))
	mux.Handle("GET /v1/profile/favorites", auth(http.HandlerFunc(favoriteHandler.GetMyFavorites)))

	return mux, tokenService
}

// bearerToken issues a token accepted by the server under test
func bearerToken(t *testing.T, tokenService *service.TokenService, userID string) string {
	t.Helper()
	token, err := tokenService.IssueAccessToken(userID, userID+"@test.local")
	require.NoError(t, err)
	return token
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	// AC-API-001: Requests Require Authentication
	tdb := testdb.New(t)
	defer tdb.Close()

	server, _ := newAPIServer(t, tdb)

	// No Authorization header
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, httptest.NewRequest("GET", "/v1/requests", nil))
	helpers.AssertStatus(t, resp, http.StatusUnauthorized)

	// Garbage token
	req := httptest.NewRequest("GET", "/v1/requests", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	helpers.AssertStatus(t, resp, http.StatusUnauthorized)

	// Token signed with a different key
	foreign := helpers.NewJWTHelper(t)
	req = httptest.NewRequest("GET", "/v1/requests", nil)
	req.Header.Set("Authorization", "Bearer "+foreign.GenerateToken("user:mallory", "mallory@test.local"))
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	helpers.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestAPI_CreateRequestFlatJSON(t *testing.T) {
	// AC-API-002: Create Request Over HTTP Returns Flat JSON
	tdb := testdb.New(t)
	defer tdb.Close()

	server, tokenService := newAPIServer(t, tdb)
	token := bearerToken(t, tokenService, "user:alice")

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	req := helpers.NewRequest(t, "POST", "/v1/requests").
		WithBody(map[string]interface{}{
			"type":              "delivery",
			"title":             "Groceries from the market",
			"due_date":          due,
			"dropoff_latitude":  40.7128,
			"dropoff_longitude": -74.0060,
		}).
		WithHeader("Authorization", "Bearer "+token).
		Build()

	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	helpers.AssertStatus(t, resp, http.StatusCreated)
	data := helpers.GetDataFromResponse(t, resp)

	// The detail record is flattened into the request object
	assert.Equal(t, "delivery", data["type"])
	assert.Equal(t, "user:alice", data["user_id"])
	assert.Equal(t, 40.7128, data["dropoff_latitude"])
	assert.Equal(t, -74.0060, data["dropoff_longitude"])
	assert.NotContains(t, data, "meetup_latitude")
	assert.NotEmpty(t, data["id"])
}

func TestAPI_ValidationProblemDetails(t *testing.T) {
	// AC-API-003: Validation Failures Return Problem Details
	tdb := testdb.New(t)
	defer tdb.Close()

	server, tokenService := newAPIServer(t, tdb)
	token := bearerToken(t, tokenService, "user:alice")

	req := helpers.NewRequest(t, "POST", "/v1/requests").
		WithBody(map[string]interface{}{
			"type":  "delivery",
			"title": "",
		}).
		WithHeader("Authorization", "Bearer "+token).
		Build()

	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	helpers.AssertProblemDetails(t, resp, http.StatusUnprocessableEntity, model.ErrCodeValidation)
	helpers.AssertValidationError(t, resp, "title")
	helpers.AssertValidationError(t, resp, "dropoff_latitude")
}

func TestAPI_MissingRequestNotFound(t *testing.T) {
	// AC-API-004: Missing Request Returns 404 Problem
	tdb := testdb.New(t)
	defer tdb.Close()

	server, tokenService := newAPIServer(t, tdb)
	token := bearerToken(t, tokenService, "user:alice")

	req := helpers.NewRequest(t, "GET", "/v1/requests/request:missing").
		WithHeader("Authorization", "Bearer "+token).
		Build()

	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
}

func TestAPI_BrowsePaginationEnvelope(t *testing.T) {
	// AC-API-005: Browse Listing Carries Pagination Envelope
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	server, tokenService := newAPIServer(t, tdb)
	token := bearerToken(t, tokenService, "user:alice")

	for i := 0; i < 3; i++ {
		f.CreateRequest(t, f.NewUserID())
		time.Sleep(5 * time.Millisecond)
	}

	req := helpers.NewRequest(t, "GET", "/v1/requests?limit=2").
		WithHeader("Authorization", "Bearer "+token).
		Build()
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	helpers.AssertStatus(t, resp, http.StatusOK)

	var page struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination struct {
			Cursor  string `json:"cursor"`
			HasMore bool   `json:"has_more"`
		} `json:"pagination"`
	}
	helpers.DecodeResponse(t, resp, &page)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.Pagination.HasMore)
	require.NotEmpty(t, page.Pagination.Cursor)

	// Follow the cursor to the final page
	req = helpers.NewRequest(t, "GET", "/v1/requests?limit=2&cursor="+page.Pagination.Cursor).
		WithHeader("Authorization", "Bearer "+token).
		Build()
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	helpers.AssertStatus(t, resp, http.StatusOK)

	helpers.DecodeResponse(t, resp, &page)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.Pagination.HasMore)
}

func TestAPI_FavoriteLifecycle(t *testing.T) {
	// AC-API-006: Favorite Lifecycle Over HTTP
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	server, tokenService := newAPIServer(t, tdb)
	token := bearerToken(t, tokenService, "user:bob")

	target := f.CreateRequest(t, f.NewUserID())

	// Favorite the request
	req := helpers.NewRequest(t, "POST", "/v1/favorites").
		WithBody(map[string]interface{}{"request_id": target.ID}).
		WithHeader("Authorization", "Bearer "+token).
		Build()
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	helpers.AssertStatus(t, resp, http.StatusCreated)

	data := helpers.GetDataFromResponse(t, resp)
	favoriteID, _ := data["id"].(string)
	require.NotEmpty(t, favoriteID)
	assert.Equal(t, target.ID, data["request_id"])

	// Favoriting again returns the same record without creating
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, helpers.NewRequest(t, "POST", "/v1/favorites").
		WithBody(map[string]interface{}{"request_id": target.ID}).
		WithHeader("Authorization", "Bearer "+token).
		Build())
	helpers.AssertStatus(t, resp, http.StatusOK)

	// It shows up in the profile listing
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, helpers.NewRequest(t, "GET", "/v1/profile/favorites").
		WithHeader("Authorization", "Bearer "+token).
		Build())
	helpers.AssertStatus(t, resp, http.StatusOK)

	var listing struct {
		Data []map[string]interface{} `json:"data"`
	}
	helpers.DecodeResponse(t, resp, &listing)
	require.Len(t, listing.Data, 1)

	// Delete and verify it is gone
	resp = httptest.NewRecorder()
	server.ServeHTTP(resp, helpers.NewRequest(t, "DELETE", "/v1/favorites/"+favoriteID).
		WithHeader("Authorization", "Bearer "+token).
		Build())
	helpers.AssertStatus(t, resp, http.StatusNoContent)

	helpers.AssertRecordNotExists(t, tdb.DB, "favorite", favoriteID)
}
