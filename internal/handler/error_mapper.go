package handler

import (
	"errors"

	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Services return ProblemDetails directly for validation and limit
	// failures, pass those through untouched
	var pd *model.ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotRequestOwner),
		errors.Is(err, service.ErrNotFavoriteOwner):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrRequestNotFound):
		return model.NewNotFoundError("request")
	case errors.Is(err, service.ErrFavoriteNotFound):
		return model.NewNotFoundError("favorite")

	// ===== Bad Input Errors → 400 =====
	case errors.Is(err, service.ErrInvalidCursor):
		return model.NewBadRequestError(err.Error())
	case errors.Is(err, service.ErrInvalidPageLimit):
		return model.NewBadRequestError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrUnknownRequestKind):
		return model.NewValidationError([]model.FieldError{{Field: "type", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
