// internal/app/features/grouporders/handler.go
package grouporders

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/formutil"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the group-order API on top of the lifecycle engine.
type Handler struct {
	Engine *orderflow.Engine
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

// NewHandler creates a group-order handler.
func NewHandler(engine *orderflow.Engine, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		ErrLog: errLog,
		Log:    logger,
	}
}

// principal resolves the caller or answers 401.
func principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
	}
	return p, ok
}

// orderID parses the {id} path segment or answers 400.
func orderID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid group order id.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decode reads a JSON body into v or answers 400/413. An empty body decodes
// to the zero value so the engine can report which fields are missing.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := formutil.Decode(w, r, v); err != nil {
		errorsfeature.WriteMessage(w, formutil.StatusOf(err), err.Error())
		return false
	}
	return true
}

// result is the body returned by every mutation.
type result struct {
	Message    string              `json:"message"`
	GroupOrder orderflow.OrderView `json:"group_order"`
}
