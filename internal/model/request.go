package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// RequestKind identifies which detail record a request carries
type RequestKind string

const (
	KindDelivery          RequestKind = "delivery"
	KindPickupAndDelivery RequestKind = "pickup_and_delivery"
	KindOnlineService     RequestKind = "online_service"
)

// Valid reports whether k is one of the known request kinds
func (k RequestKind) Valid() bool {
	switch k {
	case KindDelivery, KindPickupAndDelivery, KindOnlineService:
		return true
	}
	return false
}

// Validation constants
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Request is a service request posted by a user. Exactly one of the three
// detail pointers is non-nil, and it always matches Kind; the only way to build
// a Request outside this package is through the per-kind constructors below,
// which makes a mismatched or half-populated record unrepresentable.
type Request struct {
	ID          string
	UserID      string
	Kind        RequestKind
	Title       string
	Description *string
	DueDate     *time.Time
	CreatedAt   time.Time

	Delivery          *DeliveryDetail
	PickupAndDelivery *PickupAndDeliveryDetail
	OnlineService     *OnlineServiceDetail
}

// DeliveryDetail holds the drop-off point for a buy-and-deliver request
type DeliveryDetail struct {
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
}

// PickupAndDeliveryDetail holds both endpoints of a pickup-and-deliver request
type PickupAndDeliveryDetail struct {
	PickupLatitude   float64 `json:"pickup_latitude"`
	PickupLongitude  float64 `json:"pickup_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
}

// OnlineServiceDetail holds the meetup point where an online-service purchase
// is handed over
type OnlineServiceDetail struct {
	MeetupLatitude  float64 `json:"meetup_latitude"`
	MeetupLongitude float64 `json:"meetup_longitude"`
}

// NewDeliveryRequest builds a delivery request carrying only a drop-off point
func NewDeliveryRequest(id, userID, title string, description *string, dueDate *time.Time, createdAt time.Time, detail DeliveryDetail) *Request {
	return &Request{
		ID:          id,
		UserID:      userID,
		Kind:        KindDelivery,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
		Delivery:    &detail,
	}
}

// NewPickupAndDeliveryRequest builds a pickup-and-delivery request carrying
// pickup and drop-off points
func NewPickupAndDeliveryRequest(id, userID, title string, description *string, dueDate *time.Time, createdAt time.Time, detail PickupAndDeliveryDetail) *Request {
	return &Request{
		ID:                id,
		UserID:            userID,
		Kind:              KindPickupAndDelivery,
		Title:             title,
		Description:       description,
		DueDate:           dueDate,
		CreatedAt:         createdAt,
		PickupAndDelivery: &detail,
	}
}

// NewOnlineServiceRequest builds an online-service request carrying a meetup point
func NewOnlineServiceRequest(id, userID, title string, description *string, dueDate *time.Time, createdAt time.Time, detail OnlineServiceDetail) *Request {
	return &Request{
		ID:            id,
		UserID:        userID,
		Kind:          KindOnlineService,
		Title:         title,
		Description:   description,
		DueDate:       dueDate,
		CreatedAt:     createdAt,
		OnlineService: &detail,
	}
}

// Detail returns the active detail record as an untyped value, or nil if the
// request was constructed without one (which indicates a bug elsewhere).
func (r *Request) Detail() interface{} {
	switch {
	case r.Delivery != nil:
		return r.Delivery
	case r.PickupAndDelivery != nil:
		return r.PickupAndDelivery
	case r.OnlineService != nil:
		return r.OnlineService
	}
	return nil
}

// MarshalJSON flattens the base fields and the active detail's fields into a
// single object. Consumers depend on this flat shape; the detail is merged in,
// never nested.
func (r *Request) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":          r.ID,
		"user_id":     r.UserID,
		"type":        string(r.Kind),
		"title":       r.Title,
		"description": r.Description,
		"due_date":    r.DueDate,
		"created_at":  r.CreatedAt,
	}

	switch {
	case r.Delivery != nil:
		out["dropoff_latitude"] = r.Delivery.DropoffLatitude
		out["dropoff_longitude"] = r.Delivery.DropoffLongitude
	case r.PickupAndDelivery != nil:
		out["pickup_latitude"] = r.PickupAndDelivery.PickupLatitude
		out["pickup_longitude"] = r.PickupAndDelivery.PickupLongitude
		out["dropoff_latitude"] = r.PickupAndDelivery.DropoffLatitude
		out["dropoff_longitude"] = r.PickupAndDelivery.DropoffLongitude
	case r.OnlineService != nil:
		out["meetup_latitude"] = r.OnlineService.MeetupLatitude
		out["meetup_longitude"] = r.OnlineService.MeetupLongitude
	}

	return json.Marshal(out)
}

// CreateRequestInput is the payload for creating a request. All geo fields are
// optional at the type level; Validate enforces that exactly the set mandated
// by Type is present.
type CreateRequestInput struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	PickupLatitude   *float64 `json:"pickup_latitude,omitempty"`
	PickupLongitude  *float64 `json:"pickup_longitude,omitempty"`
	DropoffLatitude  *float64 `json:"dropoff_latitude,omitempty"`
	DropoffLongitude *float64 `json:"dropoff_longitude,omitempty"`
	MeetupLatitude   *float64 `json:"meetup_latitude,omitempty"`
	MeetupLongitude  *float64 `json:"meetup_longitude,omitempty"`
}

// Validate checks the payload against the per-kind field rules. now is passed
// in so the due-date check is deterministic in tests.
func (in *CreateRequestInput) Validate(now time.Time) []FieldError {
	var errs []FieldError

	kind := RequestKind(in.Type)
	if !kind.Valid() {
		errs = append(errs, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("type must be one of %q, %q, %q", KindDelivery, KindPickupAndDelivery, KindOnlineService),
		})
	}

	if in.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(in.Title) > MaxTitleLength {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}

	if in.Description != nil && len(*in.Description) > MaxDescriptionLength {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
		})
	}

	if in.DueDate != nil && !in.DueDate.After(now) {
		errs = append(errs, FieldError{Field: "due_date", Message: "due_date must be in the future"})
	}

	errs = append(errs, validateCoordinate("pickup_latitude", in.PickupLatitude, -90, 90)...)
	errs = append(errs, validateCoordinate("pickup_longitude", in.PickupLongitude, -180, 180)...)
	errs = append(errs, validateCoordinate("dropoff_latitude", in.DropoffLatitude, -90, 90)...)
	errs = append(errs, validateCoordinate("dropoff_longitude", in.DropoffLongitude, -180, 180)...)
	errs = append(errs, validateCoordinate("meetup_latitude", in.MeetupLatitude, -90, 90)...)
	errs = append(errs, validateCoordinate("meetup_longitude", in.MeetupLongitude, -180, 180)...)

	if kind.Valid() {
		errs = append(errs, in.validateKindFields(kind)...)
	}

	return errs
}

// validateKindFields enforces the exact geo field set for the given kind:
// the kind's own fields must all be present, every other geo field must be absent.
func (in *CreateRequestInput) validateKindFields(kind RequestKind) []FieldError {
	required := map[RequestKind][]string{
		KindDelivery:          {"dropoff_latitude", "dropoff_longitude"},
		KindPickupAndDelivery: {"pickup_latitude", "pickup_longitude", "dropoff_latitude", "dropoff_longitude"},
		KindOnlineService:     {"meetup_latitude", "meetup_longitude"},
	}[kind]

	present := map[string]bool{
		"pickup_latitude":   in.PickupLatitude != nil,
		"pickup_longitude":  in.PickupLongitude != nil,
		"dropoff_latitude":  in.DropoffLatitude != nil,
		"dropoff_longitude": in.DropoffLongitude != nil,
		"meetup_latitude":   in.MeetupLatitude != nil,
		"meetup_longitude":  in.MeetupLongitude != nil,
	}

	var errs []FieldError
	for _, field := range required {
		if !present[field] {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s is required for %s requests", field, kind),
			})
		}
		delete(present, field)
	}
	for field, set := range present {
		if set {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must not be set for %s requests", field, kind),
			})
		}
	}
	return errs
}

func validateCoordinate(field string, v *float64, min, max float64) []FieldError {
	if v == nil || (*v >= min && *v <= max) {
		return nil
	}
	return []FieldError{{
		Field:   field,
		Message: fmt.Sprintf("%s must be between %g and %g", field, min, max),
	}}
}

// UpdateRequestInput is the payload for a sparse update. nil means "leave
// unchanged"; only title and description are mutable after creation.
type UpdateRequestInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate requires at least one field and enforces length limits
func (in *UpdateRequestInput) Validate() []FieldError {
	var errs []FieldError

	if in.Title == nil && in.Description == nil {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: "at least one of title or description must be provided",
		})
		return errs
	}

	if in.Title != nil {
		if *in.Title == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
		} else if len(*in.Title) > MaxTitleLength {
			errs = append(errs, FieldError{
				Field:   "title",
				Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
			})
		}
	}

	if in.Description != nil && len(*in.Description) > MaxDescriptionLength {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
		})
	}

	return errs
}

// RequestPage is the envelope returned by paginated listing
type RequestPage struct {
	Items      []*Request
	NextCursor *string
	HasMore    bool
}
