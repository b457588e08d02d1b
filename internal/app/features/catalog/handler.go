// internal/app/features/catalog/handler.go
package catalog

import (
	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	productstore "github.com/dalemusser/sahayog/internal/app/store/products"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the read-only supplier directory and product catalog.
type Handler struct {
	Users    *userstore.Store
	Products *productstore.Store
	Reviews  *reviewstore.Store
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Products: productstore.New(db),
		Reviews:  reviewstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}
