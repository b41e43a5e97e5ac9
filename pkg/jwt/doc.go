// Package jwt provides JSON Web Token utilities for the Fetch API.
//
// The jwt package handles token generation, validation, and claims
// extraction for authentication. Tokens are signed with RS256.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "fetch-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: userID})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// Validation-only deployments can load just the public key via
// Config.PublicKeyPath.
package jwt
