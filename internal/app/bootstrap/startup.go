// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/sahayog/internal/app/store/audit"
	grouporderstore "github.com/dalemusser/sahayog/internal/app/store/grouporders"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/app/system/ratelimit"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/sahayog/internal/app/system/workers"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup builds the shared services once the database is ready: the audit
// logger, the lifecycle engine, the rate limiters and the optional expiry
// sweep. It also seeds the configured administrator.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n), zap.Any("timeouts", timeouts.Current()))
	}

	svc := deps.Services
	if svc == nil {
		return errors.New("startup: DBDeps.Services is nil")
	}

	svc.Audit = auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Order: appCfg.AuditLogOrder,
	})
	svc.Engine = orderflow.New(grouporderstore.New(deps.MongoDatabase), logger,
		orderflow.WithAudit(svc.Audit),
		orderflow.WithSavingsPerUnit(appCfg.SavingsPerUnit),
	)

	svc.LoginLimiter = ratelimit.NewLoginLimiter()
	if appCfg.JoinRateLimit > 0 {
		if deps.Redis != nil {
			svc.WriteLimiter = ratelimit.NewRedis(deps.Redis, "sahayog:writes:", appCfg.JoinRateLimit, appCfg.JoinRateWindow, logger)
			logger.Info("create/join limits shared through Redis")
		} else {
			l := ratelimit.New(appCfg.JoinRateLimit, appCfg.JoinRateWindow)
			svc.WriteLimiter = l
			svc.stopWrites = l.Stop
		}
	}

	seedCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := ensureAdmin(seedCtx, deps, appCfg.AdminLoginID, appCfg.AdminPassword, logger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if appCfg.ExpirySweepInterval > 0 {
		svc.ExpirySweep = workers.NewExpirySweep(svc.Engine, logger, appCfg.ExpirySweepInterval, appCfg.ExpirySweepBatch)
		svc.ExpirySweep.Start()
		logger.Info("expiry sweep started", zap.Duration("interval", appCfg.ExpirySweepInterval))
	}

	return nil
}

// ensureAdmin makes sure loginID exists as an active administrator. A new
// account gets password; an existing one keeps its password and is promoted
// and re-enabled if needed. A blank loginID skips the seed.
func ensureAdmin(ctx context.Context, deps DBDeps, loginID, password string, logger *zap.Logger) error {
	if loginID == "" {
		return nil
	}
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		created, err := users.Create(ctx, models.User{
			FullName: "Administrator",
			LoginID:  loginID,
			Role:     models.RoleAdmin,
			Status:   models.UserActive,
		}, password)
		if err != nil {
			return err
		}
		logger.Info("admin user created", zap.String("login_id", created.LoginID))
		return nil
	case err != nil:
		return err
	}

	if u.Role == models.RoleAdmin && u.Status == models.UserActive {
		return nil
	}
	_, err = deps.MongoDatabase.Collection("users").UpdateByID(ctx, u.ID, bson.M{
		"$set":         bson.M{"role": models.RoleAdmin, "status": models.UserActive},
		"$currentDate": bson.M{"updated_at": true},
	})
	if err != nil {
		return err
	}
	logger.Info("user promoted to admin",
		zap.String("login_id", u.LoginID),
		zap.String("previous_role", u.Role))
	return nil
}
