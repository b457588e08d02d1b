// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// logging, CORS, body limits). Everything here belongs to the group-order
// service itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI          string
	MongoDatabase     string
	MongoMaxPoolSize  uint64
	MongoMinPoolSize  uint64
	MongoConnectRetry time.Duration // total time spent retrying the first connect

	// Session and bearer-token identity
	SessionKey    string // signs session cookies (must be strong in production)
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration
	TokenSecret   string // HMAC secret for bearer tokens; falls back to SessionKey
	TokenTTL      time.Duration

	// Optional Redis for limits shared across instances. Blank keeps the
	// in-process limiters.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Write limits on create and join, per signed-in user.
	JoinRateLimit  int
	JoinRateWindow time.Duration

	// Background cancellation of active orders past their deadline.
	// Zero disables the sweep.
	ExpirySweepInterval time.Duration
	ExpirySweepBatch    int64

	// SavingsPerUnit prices one unit in the vendor savings estimate (INR).
	SavingsPerUnit float64

	// Audit logging: 'all' (db+log), 'db', 'log', or 'off'
	AuditLogAuth  string
	AuditLogOrder string

	// Admin seeded on startup when both are set.
	AdminLoginID  string
	AdminPassword string
}
