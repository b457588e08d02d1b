// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/app/system/ratelimit"
	"github.com/dalemusser/sahayog/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end clients and the long-lived services built on
// them. WAFFLE passes it by value to every hook, so the services live behind
// a pointer filled in by Startup.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         *redis.Client // nil when redis_addr is blank

	Services *Services
}

// Services are built once in Startup and shared by BuildHandler and Shutdown.
type Services struct {
	Audit        *auditlog.Logger
	Engine       *orderflow.Engine
	LoginLimiter *ratelimit.LoginLimiter
	WriteLimiter ratelimit.Allower // nil disables create/join limits
	ExpirySweep  *workers.ExpirySweep

	// stopWrites stops an in-process write limiter's janitor.
	stopWrites func()
}
