package model

import "time"

// Favorite marks a request as saved by a user. A user holds at most one
// favorite per request; the store enforces the pair's uniqueness.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFavoriteInput is the payload for favoriting a request
type CreateFavoriteInput struct {
	RequestID string `json:"request_id"`
}

// Validate checks the payload
func (in *CreateFavoriteInput) Validate() []FieldError {
	if in.RequestID == "" {
		return []FieldError{{Field: "request_id", Message: "request_id is required"}}
	}
	return nil
}
