// internal/app/features/auditlog/handler.go
package auditlog

import (
	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/store/audit"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *errorsfeature.ErrorLogger
}

// NewHandler constructs the audit log handler bound to the given database.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
