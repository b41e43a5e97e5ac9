// Package middleware provides HTTP middleware for the Fetch API.
//
// The middleware package contains reusable middleware components for
// authentication and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - RequestID: Unique request ID propagation
//   - Logger: Structured request logging
//   - Recovery: Panic recovery with a JSON 500 response
//   - CORS: Cross-origin request handling
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information:
//
//	handler = middleware.Chain(mux, middleware.Auth(jwtService))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetUserEmail(ctx): Returns authenticated user email
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
