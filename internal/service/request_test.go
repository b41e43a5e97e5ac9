package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/pagination"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockRequestRepo struct {
	createFunc      func(ctx context.Context, req *model.Request) error
	getByIDFunc     func(ctx context.Context, requestID string) (*model.Request, error)
	listByUserFunc  func(ctx context.Context, userID string) ([]*model.Request, error)
	listFunc        func(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error)
	updateFunc      func(ctx context.Context, requestID string, in *model.UpdateRequestInput) (*model.Request, error)
	deleteFunc      func(ctx context.Context, requestID string) error
	countByUserFunc func(ctx context.Context, userID string) (int, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, req *model.Request) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, requestID string) (*model.Request, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, requestID)
	}
	return nil, database.ErrNotFound
}

func (m *mockRequestRepo) ListByUser(ctx context.Context, userID string) ([]*model.Request, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRequestRepo) List(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, kind, after, limit)
	}
	return &model.RequestPage{}, nil
}

func (m *mockRequestRepo) Update(ctx context.Context, requestID string, in *model.UpdateRequestInput) (*model.Request, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, requestID, in)
	}
	return nil, database.ErrNotFound
}

func (m *mockRequestRepo) Delete(ctx context.Context, requestID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, requestID)
	}
	return nil
}

func (m *mockRequestRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countByUserFunc != nil {
		return m.countByUserFunc(ctx, userID)
	}
	return 0, nil
}

func newTestRequestService(repo *mockRequestRepo, maxPerUser int) *RequestService {
	if repo == nil {
		repo = &mockRequestRepo{}
	}
	return NewRequestService(RequestServiceConfig{
		RequestRepo:     repo,
		MaxUserRequests: maxPerUser,
	})
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func deliveryRequest(id, userID string) *model.Request {
	return model.NewDeliveryRequest(id, userID, "Groceries", nil, nil, time.Now().UTC(),
		model.DeliveryDetail{DropoffLatitude: 48.85, DropoffLongitude: 2.35})
}

// ============================================================================
// CreateRequest Tests
// ============================================================================

func TestCreateRequest_Delivery_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *model.Request
	repo := &mockRequestRepo{
		createFunc: func(ctx context.Context, req *model.Request) error {
			req.ID = "request:1"
			req.CreatedAt = time.Now().UTC()
			created = req
			return nil
		},
	}
	svc := newTestRequestService(repo, 0)

	req, err := svc.CreateRequest(ctx, "user-1", &model.CreateRequestInput{
		Type:             string(model.KindDelivery),
		Title:            "Groceries",
		DropoffLatitude:  floatPtr(48.85),
		DropoffLongitude: floatPtr(2.35),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repository create to be called")
	}
	if req.Kind != model.KindDelivery {
		t.Errorf("expected kind %q, got %q", model.KindDelivery, req.Kind)
	}
	if req.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", req.UserID)
	}
	if req.Delivery == nil || req.Delivery.DropoffLatitude != 48.85 {
		t.Errorf("expected delivery detail to carry the dropoff point, got %+v", req.Delivery)
	}
}

func TestCreateRequest_InvalidPayload_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repoCalled := false
	repo := &mockRequestRepo{
		createFunc: func(ctx context.Context, req *model.Request) error {
			repoCalled = true
			return nil
		},
	}
	svc := newTestRequestService(repo, 0)

	_, err := svc.CreateRequest(ctx, "user-1", &model.CreateRequestInput{
		Type:  string(model.KindDelivery),
		Title: "Groceries",
		// dropoff point missing
	})

	var pd *model.ProblemDetails
	if !errors.As(err, &pd) {
		t.Fatalf("expected ProblemDetails, got %v", err)
	}
	if pd.Code != model.ErrCodeValidation {
		t.Errorf("expected validation code, got %d", pd.Code)
	}
	if repoCalled {
		t.Error("repository should not be called for invalid payload")
	}
}

func TestCreateRequest_AtCap_ReturnsLimitExceeded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		countByUserFunc: func(ctx context.Context, userID string) (int, error) {
			return 10, nil
		},
	}
	svc := newTestRequestService(repo, 10)

	_, err := svc.CreateRequest(ctx, "user-1", &model.CreateRequestInput{
		Type:             string(model.KindDelivery),
		Title:            "Groceries",
		DropoffLatitude:  floatPtr(48.85),
		DropoffLongitude: floatPtr(2.35),
	})

	var pd *model.ProblemDetails
	if !errors.As(err, &pd) {
		t.Fatalf("expected ProblemDetails, got %v", err)
	}
	if pd.Code != model.ErrCodeLimitExceeded {
		t.Errorf("expected limit exceeded code, got %d", pd.Code)
	}
}

func TestCreateRequest_UnderCap_Succeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		countByUserFunc: func(ctx context.Context, userID string) (int, error) {
			return 9, nil
		},
	}
	svc := newTestRequestService(repo, 10)

	_, err := svc.CreateRequest(ctx, "user-1", &model.CreateRequestInput{
		Type:             string(model.KindDelivery),
		Title:            "Groceries",
		DropoffLatitude:  floatPtr(48.85),
		DropoffLongitude: floatPtr(2.35),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ============================================================================
// GetRequest Tests
// ============================================================================

func TestGetRequest_NotFound_MapsSentinel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.GetRequest(ctx, "request:missing")
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestGetRequest_Found(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, requestID string) (*model.Request, error) {
			return deliveryRequest(requestID, "user-1"), nil
		},
	}
	svc := newTestRequestService(repo, 0)

	req, err := svc.GetRequest(ctx, "request:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != "request:1" {
		t.Errorf("expected request:1, got %q", req.ID)
	}
}

// ============================================================================
// ListRequests Tests
// ============================================================================

func TestListRequests_DefaultLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotLimit int
	repo := &mockRequestRepo{
		listFunc: func(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error) {
			gotLimit = limit
			return &model.RequestPage{}, nil
		},
	}
	svc := newTestRequestService(repo, 0)

	if _, err := svc.ListRequests(ctx, "", "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != DefaultPageLimit {
		t.Errorf("expected default limit %d, got %d", DefaultPageLimit, gotLimit)
	}
}

func TestListRequests_LimitTooLarge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.ListRequests(ctx, "", "", MaxPageLimit+1)
	if !errors.Is(err, ErrInvalidPageLimit) {
		t.Errorf("expected ErrInvalidPageLimit, got %v", err)
	}
}

func TestListRequests_UnknownKindFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.ListRequests(ctx, "teleport", "", 10)
	if !errors.Is(err, ErrUnknownRequestKind) {
		t.Errorf("expected ErrUnknownRequestKind, got %v", err)
	}
}

func TestListRequests_KindFilterPassedThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotKind *model.RequestKind
	repo := &mockRequestRepo{
		listFunc: func(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error) {
			gotKind = kind
			return &model.RequestPage{}, nil
		},
	}
	svc := newTestRequestService(repo, 0)

	if _, err := svc.ListRequests(ctx, string(model.KindOnlineService), "", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKind == nil || *gotKind != model.KindOnlineService {
		t.Errorf("expected online_service filter, got %v", gotKind)
	}
}

func TestListRequests_InvalidCursor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.ListRequests(ctx, "", "not-a-cursor", 10)
	if !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestListRequests_ValidCursorDecoded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	key := pagination.Key{
		CreatedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		ID:        "request:abc",
	}

	var gotAfter *pagination.Key
	repo := &mockRequestRepo{
		listFunc: func(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error) {
			gotAfter = after
			return &model.RequestPage{}, nil
		},
	}
	svc := newTestRequestService(repo, 0)

	if _, err := svc.ListRequests(ctx, "", pagination.Encode(key), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAfter == nil || gotAfter.ID != key.ID {
		t.Errorf("expected decoded cursor key, got %+v", gotAfter)
	}
}

// ============================================================================
// UpdateRequest Tests
// ============================================================================

func TestUpdateRequest_NotOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, requestID string) (*model.Request, error) {
			return deliveryRequest(requestID, "owner"), nil
		},
	}
	svc := newTestRequestService(repo, 0)

	_, err := svc.UpdateRequest(ctx, "intruder", "request:1", &model.UpdateRequestInput{Title: strPtr("New")})
	if !errors.Is(err, ErrNotRequestOwner) {
		t.Errorf("expected ErrNotRequestOwner, got %v", err)
	}
}

func TestUpdateRequest_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.UpdateRequest(ctx, "user-1", "request:missing", &model.UpdateRequestInput{Title: strPtr("New")})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestUpdateRequest_EmptyUpdate_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestRequestService(nil, 0)

	_, err := svc.UpdateRequest(ctx, "user-1", "request:1", &model.UpdateRequestInput{})

	var pd *model.ProblemDetails
	if !errors.As(err, &pd) {
		t.Fatalf("expected ProblemDetails, got %v", err)
	}
	if pd.Code != model.ErrCodeValidation {
		t.Errorf("expected validation code, got %d", pd.Code)
	}
}

func TestUpdateRequest_Owner_Succeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, requestID string) (*model.Request, error) {
			return deliveryRequest(requestID, "user-1"), nil
		},
		updateFunc: func(ctx context.Context, requestID string, in *model.UpdateRequestInput) (*model.Request, error) {
			updated := deliveryRequest(requestID, "user-1")
			updated.Title = *in.Title
			return updated, nil
		},
	}
	svc := newTestRequestService(repo, 0)

	req, err := svc.UpdateRequest(ctx, "user-1", "request:1", &model.UpdateRequestInput{Title: strPtr("New title")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Title != "New title" {
		t.Errorf("expected updated title, got %q", req.Title)
	}
}

// ============================================================================
// DeleteRequest Tests
// ============================================================================

func TestDeleteRequest_AlreadyGone_Succeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deleteCalled := false
	repo := &mockRequestRepo{
		deleteFunc: func(ctx context.Context, requestID string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := newTestRequestService(repo, 0)

	if err := svc.DeleteRequest(ctx, "user-1", "request:missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleteCalled {
		t.Error("delete should not reach the repository for a missing request")
	}
}

func TestDeleteRequest_NotOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, requestID string) (*model.Request, error) {
			return deliveryRequest(requestID, "owner"), nil
		},
	}
	svc := newTestRequestService(repo, 0)

	err := svc.DeleteRequest(ctx, "intruder", "request:1")
	if !errors.Is(err, ErrNotRequestOwner) {
		t.Errorf("expected ErrNotRequestOwner, got %v", err)
	}
}

func TestDeleteRequest_Owner_Succeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deleteCalled := false
	repo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, requestID string) (*model.Request, error) {
			return deliveryRequest(requestID, "user-1"), nil
		},
		deleteFunc: func(ctx context.Context, requestID string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := newTestRequestService(repo, 0)

	if err := svc.DeleteRequest(ctx, "user-1", "request:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleteCalled {
		t.Error("expected repository delete to be called")
	}
}
