package service

import (
	"context"
	"errors"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
)

// FavoriteRepository defines the interface for favorite storage
type FavoriteRepository interface {
	Create(ctx context.Context, userID, requestID string) (*model.Favorite, bool, error)
	GetByID(ctx context.Context, favoriteID string) (*model.Favorite, error)
	Delete(ctx context.Context, favoriteID string) error
	ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteOrphaned(ctx context.Context) (int, error)
}

// FavoriteService handles favorite business logic
type FavoriteService struct {
	favoriteRepo FavoriteRepository
	requestRepo  RequestRepository
	maxPerUser   int
}

// FavoriteServiceConfig holds configuration for the favorite service
type FavoriteServiceConfig struct {
	FavoriteRepo FavoriteRepository
	RequestRepo  RequestRepository
	// MaxUserFavorites caps how many favorites a single user may hold.
	// Zero disables the cap.
	MaxUserFavorites int
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(cfg FavoriteServiceConfig) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: cfg.FavoriteRepo,
		requestRepo:  cfg.RequestRepo,
		maxPerUser:   cfg.MaxUserFavorites,
	}
}

// CreateFavorite marks a request as favorited by the user. Favoriting the
// same request again returns the existing favorite; the bool reports whether
// a new record was created.
func (s *FavoriteService) CreateFavorite(ctx context.Context, userID string, in *model.CreateFavoriteInput) (*model.Favorite, bool, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, false, model.NewValidationError(errs)
	}

	// The favorite must point at a request that exists
	if _, err := s.requestRepo.GetByID(ctx, in.RequestID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, false, ErrRequestNotFound
		}
		return nil, false, err
	}

	if s.maxPerUser > 0 {
		count, err := s.favoriteRepo.CountByUser(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if count >= s.maxPerUser {
			return nil, false, model.NewLimitExceededError("favorites", s.maxPerUser, count)
		}
	}

	return s.favoriteRepo.Create(ctx, userID, in.RequestID)
}

// GetFavorite retrieves one of the user's favorites by id. Another user's
// favorite is reported as not found rather than forbidden.
func (s *FavoriteService) GetFavorite(ctx context.Context, userID, favoriteID string) (*model.Favorite, error) {
	fav, err := s.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	if fav.UserID != userID {
		return nil, ErrFavoriteNotFound
	}
	return fav, nil
}

// DeleteFavorite removes one of the user's favorites. Deleting a favorite
// that no longer exists succeeds.
func (s *FavoriteService) DeleteFavorite(ctx context.Context, userID, favoriteID string) error {
	fav, err := s.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	}
	if fav.UserID != userID {
		return ErrNotFavoriteOwner
	}

	return s.favoriteRepo.Delete(ctx, favoriteID)
}

// ListFavorites returns the user's favorites, most recently created first
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

// SweepOrphaned removes favorites that point at deleted requests and
// returns the number removed
func (s *FavoriteService) SweepOrphaned(ctx context.Context) (int, error) {
	return s.favoriteRepo.DeleteOrphaned(ctx)
}
