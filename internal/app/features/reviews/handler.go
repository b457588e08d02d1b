// internal/app/features/reviews/handler.go
package reviews

import (
	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler accepts vendor reviews of completed orders and lists them per
// supplier.
type Handler struct {
	Engine   *orderflow.Engine
	Reviews  *reviewstore.Store
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, engine *orderflow.Engine, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:   engine,
		Reviews:  reviewstore.New(db),
		Users:    userstore.New(db),
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}
