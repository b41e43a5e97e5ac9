package service

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/pagination"
)

// RequestRepository defines the interface for request storage
type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, requestID string) (*model.Request, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Request, error)
	List(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error)
	Update(ctx context.Context, requestID string, in *model.UpdateRequestInput) (*model.Request, error)
	Delete(ctx context.Context, requestID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

// Page limits for the browse listing
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// RequestService handles service request business logic
type RequestService struct {
	requestRepo RequestRepository
	maxPerUser  int
}

// RequestServiceConfig holds configuration for the request service
type RequestServiceConfig struct {
	RequestRepo RequestRepository
	// MaxUserRequests caps how many requests a single user may hold.
	// Zero disables the cap.
	MaxUserRequests int
}

// NewRequestService creates a new request service
func NewRequestService(cfg RequestServiceConfig) *RequestService {
	return &RequestService{
		requestRepo: cfg.RequestRepo,
		maxPerUser:  cfg.MaxUserRequests,
	}
}

// CreateRequest validates the payload and persists a new request for the user
func (s *RequestService) CreateRequest(ctx context.Context, userID string, in *model.CreateRequestInput) (*model.Request, error) {
	if errs := in.Validate(time.Now().UTC()); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	if s.maxPerUser > 0 {
		count, err := s.requestRepo.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= s.maxPerUser {
			return nil, model.NewLimitExceededError("requests", s.maxPerUser, count)
		}
	}

	// The repository assigns the id and creation time
	var req *model.Request
	switch model.RequestKind(in.Type) {
	case model.KindDelivery:
		req = model.NewDeliveryRequest("", userID, in.Title, in.Description, in.DueDate, time.Time{},
			model.DeliveryDetail{
				DropoffLatitude:  *in.DropoffLatitude,
				DropoffLongitude: *in.DropoffLongitude,
			})
	case model.KindPickupAndDelivery:
		req = model.NewPickupAndDeliveryRequest("", userID, in.Title, in.Description, in.DueDate, time.Time{},
			model.PickupAndDeliveryDetail{
				PickupLatitude:   *in.PickupLatitude,
				PickupLongitude:  *in.PickupLongitude,
				DropoffLatitude:  *in.DropoffLatitude,
				DropoffLongitude: *in.DropoffLongitude,
			})
	case model.KindOnlineService:
		req = model.NewOnlineServiceRequest("", userID, in.Title, in.Description, in.DueDate, time.Time{},
			model.OnlineServiceDetail{
				MeetupLatitude:  *in.MeetupLatitude,
				MeetupLongitude: *in.MeetupLongitude,
			})
	default:
		return nil, ErrUnknownRequestKind
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest retrieves a single request by id
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*model.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListUserRequests returns all requests created by a user, newest first
func (s *RequestService) ListUserRequests(ctx context.Context, userID string) ([]*model.Request, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// ListRequests returns one page of the browse listing. kindFilter narrows the
// page to one request type when non-empty, cursorToken resumes from a previous
// page, and limit defaults to DefaultPageLimit when zero or negative.
func (s *RequestService) ListRequests(ctx context.Context, kindFilter, cursorToken string, limit int) (*model.RequestPage, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return nil, ErrInvalidPageLimit
	}

	var kind *model.RequestKind
	if kindFilter != "" {
		k := model.RequestKind(kindFilter)
		if !k.Valid() {
			return nil, ErrUnknownRequestKind
		}
		kind = &k
	}

	var after *pagination.Key
	if cursorToken != "" {
		key, err := pagination.Decode(cursorToken)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		after = &key
	}

	return s.requestRepo.List(ctx, kind, after, limit)
}

// UpdateRequest applies a sparse update to a request owned by the user.
// Only title and description can change after creation.
func (s *RequestService) UpdateRequest(ctx context.Context, userID, requestID string, in *model.UpdateRequestInput) (*model.Request, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	existing, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotRequestOwner
	}

	updated, err := s.requestRepo.Update(ctx, requestID, in)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Deleted between the ownership check and the update
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteRequest removes a request owned by the user along with its favorites.
// Deleting a request that no longer exists succeeds.
func (s *RequestService) DeleteRequest(ctx context.Context, userID, requestID string) error {
	existing, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.UserID != userID {
		return ErrNotRequestOwner
	}

	return s.requestRepo.Delete(ctx, requestID)
}
