// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	userID := f.NewUserID()
//	req := f.CreateRequest(t, userID)
//	fav := f.CreateFavorite(t, userID, req)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/repository"
)

// Factory creates test entities in the database. Inserts go through the real
// repositories so fixtures exercise the same write path as the API.
type Factory struct {
	db        database.Database
	requests  *repository.RequestRepository
	favorites *repository.FavoriteRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:        db,
		requests:  repository.NewRequestRepository(db),
		favorites: repository.NewFavoriteRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout and its cancel func
func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// NewUserID returns a fresh user record id. Identity comes from JWT claims
// rather than a user table, so a unique id is all a test needs to act as a
// distinct user.
func (f *Factory) NewUserID() string {
	return "user:" + randomID()
}

// ============================================================================
// Request Fixtures
// ============================================================================

// RequestOpts customizes request creation
type RequestOpts struct {
	Kind        model.RequestKind
	Title       string
	Description *string
	DueDate     *time.Time
}

// WithKind sets the request kind
func WithKind(kind model.RequestKind) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.Kind = kind
	}
}

// WithTitle sets the request title
func WithTitle(title string) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.Title = title
	}
}

// WithDueDate sets the request due date
func WithDueDate(due time.Time) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.DueDate = &due
	}
}

// WithDescription sets the request description
func WithDescription(desc string) func(*RequestOpts) {
	return func(o *RequestOpts) {
		o.Description = &desc
	}
}

// CreateRequest creates a request owned by userID. Defaults to a delivery
// request with no due date; the detail record carries fixed test coordinates.
func (f *Factory) CreateRequest(t *testing.T, userID string, opts ...func(*RequestOpts)) *model.Request {
	t.Helper()

	o := &RequestOpts{
		Kind:  model.KindDelivery,
		Title: fmt.Sprintf("Request %s", randomID()),
	}
	for _, fn := range opts {
		fn(o)
	}

	var req *model.Request
	switch o.Kind {
	case model.KindDelivery:
		req = model.NewDeliveryRequest("", userID, o.Title, o.Description, o.DueDate, time.Time{},
			model.DeliveryDetail{
				DropoffLatitude:  40.7128,
				DropoffLongitude: -74.0060,
			})
	case model.KindPickupAndDelivery:
		req = model.NewPickupAndDeliveryRequest("", userID, o.Title, o.Description, o.DueDate, time.Time{},
			model.PickupAndDeliveryDetail{
				PickupLatitude:   40.7580,
				PickupLongitude:  -73.9855,
				DropoffLatitude:  40.7128,
				DropoffLongitude: -74.0060,
			})
	case model.KindOnlineService:
		req = model.NewOnlineServiceRequest("", userID, o.Title, o.Description, o.DueDate, time.Time{},
			model.OnlineServiceDetail{
				MeetupLatitude:  40.7484,
				MeetupLongitude: -73.9857,
			})
	default:
		t.Fatalf("fixtures: unknown request kind %q", o.Kind)
	}

	c, cancel := ctx()
	defer cancel()
	if err := f.requests.Create(c, req); err != nil {
		t.Fatalf("fixtures: failed to create request: %v", err)
	}
	return req
}

// CreateOnlineServiceRequest creates an online service request
func (f *Factory) CreateOnlineServiceRequest(t *testing.T, userID string, opts ...func(*RequestOpts)) *model.Request {
	opts = append([]func(*RequestOpts){WithKind(model.KindOnlineService)}, opts...)
	return f.CreateRequest(t, userID, opts...)
}

// CreatePickupAndDeliveryRequest creates a pickup and delivery request
func (f *Factory) CreatePickupAndDeliveryRequest(t *testing.T, userID string, opts ...func(*RequestOpts)) *model.Request {
	opts = append([]func(*RequestOpts){WithKind(model.KindPickupAndDelivery)}, opts...)
	return f.CreateRequest(t, userID, opts...)
}

// ============================================================================
// Favorite Fixtures
// ============================================================================

// CreateFavorite marks req as favorited by userID
func (f *Factory) CreateFavorite(t *testing.T, userID string, req *model.Request) *model.Favorite {
	t.Helper()

	c, cancel := ctx()
	defer cancel()

	fav, _, err := f.favorites.Create(c, userID, req.ID)
	if err != nil {
		t.Fatalf("fixtures: failed to create favorite: %v", err)
	}
	return fav
}
