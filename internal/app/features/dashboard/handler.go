// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Engine  *orderflow.Engine
	Reviews *reviewstore.Store
	ErrLog  *errorsfeature.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, engine *orderflow.Engine, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Engine:  engine,
		Reviews: reviewstore.New(db),
		ErrLog:  errLog,
		Log:     logger,
	}
}

// ServeDashboard answers with the summary for the caller's role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch p.Role {
	case models.RoleAdmin:
		h.ServeAdmin(w, r, p)
	case models.RoleVendor:
		h.ServeVendor(w, r, p)
	case models.RoleSupplier:
		h.ServeSupplier(w, r, p)
	default:
		errorsfeature.WriteMessage(w, http.StatusForbidden, "forbidden")
	}
}
