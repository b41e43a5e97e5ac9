// Package helpers provides test utility functions for the Fetch API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	title := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	due := helpers.TimePtr(time.Now())
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(userID, email)
//	expired := jwtHelper.GenerateExpiredToken(userID, email)
//
// # HTTP Helpers
//
// Build authenticated requests against handlers:
//
//	req := helpers.NewRequest(t, "POST", "/v1/requests").
//	    WithBody(payload).
//	    WithAuth(jwtHelper, userID, email).
//	    Build()
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertStatus(t, resp, http.StatusCreated)
//	helpers.AssertValidationError(t, resp, "title")
//	helpers.AssertRecordExists(t, db, "request", req.ID)
//	helpers.AssertRecordNotExists(t, db, "favorite", fav.ID)
package helpers
