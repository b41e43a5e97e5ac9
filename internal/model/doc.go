// Package model defines domain entities and data structures for the Fetch API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - Request: A service request posted by a user, one of three kinds
//     (delivery, pickup and delivery, online service), each carrying its
//     own geographic detail record
//   - Favorite: A per-user bookmark on a request, unique per (user, request)
//
// A Request is a tagged union: exactly one detail pointer is set and it always
// matches Kind. The per-kind constructors are the only way to build one, so a
// mismatched record cannot exist.
//
// # JSON Serialization
//
// Requests serialize flat: base fields and the active detail's fields are
// merged into a single object:
//
//	{
//	    "id": "...",
//	    "type": "delivery",
//	    "title": "...",
//	    "dropoff_latitude": 48.85,
//	    "dropoff_longitude": 2.35
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxTitleLength       = 100
//	    MaxDescriptionLength = 500
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
