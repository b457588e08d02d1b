// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for Sahayog. Each key can be
// set in a config file (mongo_uri), the environment (SAHAYOG_MONGO_URI) or
// on the command line (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "sahayog", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_retry", Default: "30s", Desc: "How long to keep retrying the initial MongoDB connect"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "sahayog-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},
	{Name: "token_secret", Default: "", Desc: "Bearer token signing secret (blank reuses session_key)"},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime"},

	{Name: "redis_addr", Default: "", Desc: "Redis address for shared rate limits (blank keeps limits in-process)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	{Name: "join_rate_limit", Default: 30, Desc: "Create/join requests allowed per user per window (0 disables)"},
	{Name: "join_rate_window", Default: "1m", Desc: "Create/join rate limit window"},

	{Name: "expiry_sweep_interval", Default: "0s", Desc: "Cancel expired active group orders this often (0 disables)"},
	{Name: "expiry_sweep_batch", Default: 100, Desc: "Most orders cancelled per sweep"},

	{Name: "savings_per_unit", Default: "10", Desc: "Rupees saved per unit bought through a completed group order"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_order", Default: "all", Desc: "Order and review event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "admin_login_id", Default: "", Desc: "Login id of the administrator created on startup"},
	{Name: "admin_password", Default: "", Desc: "Password for admin_login_id when it is created"},
}

// LoadConfig loads WAFFLE core config and app-specific config. Precedence is
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SAHAYOG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:          appValues.String("mongo_uri"),
		MongoDatabase:     appValues.String("mongo_database"),
		MongoMaxPoolSize:  uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:  uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectRetry: appValues.Duration("mongo_connect_retry", 30*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		TokenSecret:   appValues.String("token_secret"),
		TokenTTL:      appValues.Duration("token_ttl", 24*time.Hour),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		JoinRateLimit:  appValues.Int("join_rate_limit"),
		JoinRateWindow: appValues.Duration("join_rate_window", time.Minute),

		ExpirySweepInterval: appValues.Duration("expiry_sweep_interval", 0),
		ExpirySweepBatch:    int64(appValues.Int("expiry_sweep_batch")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogOrder: appValues.String("audit_log_order"),

		AdminLoginID:  appValues.String("admin_login_id"),
		AdminPassword: appValues.String("admin_password"),
	}

	spu, err := parseSavingsPerUnit(appValues.String("savings_per_unit"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg.SavingsPerUnit = spu

	if appCfg.TokenSecret == "" {
		appCfg.TokenSecret = appCfg.SessionKey
	}

	return coreCfg, appCfg, nil
}

func parseSavingsPerUnit(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("savings_per_unit must be a non-negative number, got %q", s)
	}
	return v, nil
}

// ValidateConfig rejects configurations that would fail later or run
// insecurely. It runs before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return errors.New("mongo_database is required")
	}
	if appCfg.MongoConnectRetry <= 0 {
		return errors.New("mongo_connect_retry must be positive")
	}
	if len(appCfg.SessionKey) < 32 {
		return errors.New("session_key must be at least 32 characters")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return errors.New("session_key must be changed in production")
	}
	if appCfg.JoinRateLimit < 0 {
		return errors.New("join_rate_limit must not be negative")
	}
	if appCfg.JoinRateLimit > 0 && appCfg.JoinRateWindow <= 0 {
		return errors.New("join_rate_window must be positive when join_rate_limit is set")
	}
	if appCfg.ExpirySweepInterval < 0 {
		return errors.New("expiry_sweep_interval must not be negative")
	}
	if (appCfg.AdminLoginID == "") != (appCfg.AdminPassword == "") {
		return errors.New("admin_login_id and admin_password must be set together")
	}
	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_order": appCfg.AuditLogOrder} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}
	return nil
}
