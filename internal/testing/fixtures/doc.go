// Package fixtures provides test data factories for the Fetch API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	userID := f.NewUserID()                  // Fresh user identity
//	req := f.CreateRequest(t, userID)        // Delivery request by default
//	req := f.CreateOnlineServiceRequest(t, userID)
//	fav := f.CreateFavorite(t, userID, req)  // Favorite the request
//
// # Customization
//
// Use option functions for customization:
//
//	req := f.CreateRequest(t, userID, WithTitle("Groceries"))
//	req := f.CreateRequest(t, userID, WithDueDate(time.Now().Add(24*time.Hour)))
//	req := f.CreateRequest(t, userID, WithKind(model.KindPickupAndDelivery))
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.NewUserID() // user:abc123
//	user2 := f.NewUserID() // user:def456
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
