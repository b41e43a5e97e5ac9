// Package config manages application configuration for the Fetch API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - LimitsConfig: Per-user resource caps
//   - JobsConfig: Background job intervals
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT              - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT         - SurrealDB endpoint
//	DB_NAMESPACE, DB_DATABASE - SurrealDB namespace and database
//	DB_USER, DB_PASSWORD     - Database credentials
//	JWT_PRIVATE_KEY_PATH     - RSA private key for token signing
//	JWT_PUBLIC_KEY_PATH      - RSA public key for token validation
//	JWT_EXPIRATION_MINS      - Token lifetime in minutes
//	MAX_USER_REQUESTS        - Per-user request cap (0 disables)
//	MAX_USER_FAVORITES       - Per-user favorite cap (0 disables)
//	FAVORITE_SWEEP_INTERVAL  - Orphaned favorite sweep interval
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
