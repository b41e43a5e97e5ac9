package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
)

// FavoriteRepository handles favorite data access
type FavoriteRepository struct {
	db database.Database
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db database.Database) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create records a favorite for the (user, request) pair. Favoriting an
// already favorited request returns the existing record; the bool reports
// whether a new record was written. A unique index on the pair backs up the
// check-before-insert against concurrent creates.
func (r *FavoriteRepository) Create(ctx context.Context, userID, requestID string) (*model.Favorite, bool, error) {
	existing, err := r.getByUserAndRequest(ctx, userID, requestID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, err
	}

	fav := &model.Favorite{
		ID:        newRecordID("favorite"),
		UserID:    userID,
		RequestID: requestID,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		CREATE type::record($id) CONTENT {
			user_id: $user_id,
			request_id: $request_id,
			created_at: $created_at
		}`
	vars := map[string]interface{}{
		"id":         fav.ID,
		"user_id":    fav.UserID,
		"request_id": fav.RequestID,
		"created_at": fav.CreatedAt,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent create, return the winner
			existing, getErr := r.getByUserAndRequest(ctx, userID, requestID)
			if getErr != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return fav, true, nil
}

// GetByID retrieves a favorite by its id.
// Returns database.ErrNotFound when the record does not exist.
func (r *FavoriteRepository) GetByID(ctx context.Context, favoriteID string) (*model.Favorite, error) {
	if !strings.HasPrefix(favoriteID, "favorite:") {
		return nil, database.ErrNotFound
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`,
		map[string]interface{}{"id": favoriteID})
	if err != nil {
		return nil, err
	}

	return parseFavorite(result)
}

// Delete removes a favorite. Deleting a favorite that does not exist is a
// no-op.
func (r *FavoriteRepository) Delete(ctx context.Context, favoriteID string) error {
	if !strings.HasPrefix(favoriteID, "favorite:") {
		return nil
	}
	return r.db.Execute(ctx, `DELETE type::record($id)`,
		map[string]interface{}{"id": favoriteID})
}

// ListByUser returns a user's favorites, most recently created first
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	query := `SELECT * FROM favorite WHERE user_id = $user_id ORDER BY created_at DESC, id DESC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, err
	}

	raw, _ := extractQueryResults(result)
	favorites := make([]*model.Favorite, 0, len(raw))
	for _, item := range raw {
		fav, err := parseFavorite(item)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, nil
}

// CountByUser returns the number of favorites held by a user
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM favorite WHERE user_id = $user_id GROUP ALL`,
		map[string]interface{}{"user_id": userID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// DeleteOrphaned removes favorites whose request no longer exists and
// returns how many records were deleted. Request deletion cascades over
// favorites in the same transaction, so orphans only appear after out of
// band writes.
func (r *FavoriteRepository) DeleteOrphaned(ctx context.Context) (int, error) {
	query := `DELETE favorite WHERE type::record(request_id) NOT INSIDE (SELECT VALUE id FROM request) RETURN BEFORE`
	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return 0, err
	}

	deleted, _ := extractQueryResults(result)
	return len(deleted), nil
}

func (r *FavoriteRepository) getByUserAndRequest(ctx context.Context, userID, requestID string) (*model.Favorite, error) {
	query := `SELECT * FROM favorite WHERE user_id = $user_id AND request_id = $request_id LIMIT 1`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"user_id":    userID,
		"request_id": requestID,
	})
	if err != nil {
		return nil, err
	}
	return parseFavorite(result)
}

func parseFavorite(result interface{}) (*model.Favorite, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected favorite row format %T", database.ErrQuery, result)
	}

	fav := &model.Favorite{
		ID:        extractRecordID(data["id"]),
		UserID:    getString(data, "user_id"),
		RequestID: getString(data, "request_id"),
	}
	if t := getTime(data, "created_at"); t != nil {
		fav.CreatedAt = *t
	}
	return fav, nil
}
