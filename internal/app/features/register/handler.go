// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/formutil"
	"github.com/dalemusser/sahayog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// registerInput is a vendor or supplier signing up. The business profile
// fields are kept for suppliers only.
type registerInput struct {
	FullName     string `json:"full_name" validate:"required,max=200" label:"Full name"`
	LoginID      string `json:"login_id" validate:"required,max=200" label:"Login ID"`
	Email        string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Password     string `json:"password" validate:"required,min=8,max=200" label:"Password"`
	Role         string `json:"role" validate:"required,role" label:"Role"`
	BusinessName string `json:"business_name" validate:"max=200" label:"Business name"`
	Phone        string `json:"phone" validate:"max=40" label:"Phone"`
	Area         string `json:"area" validate:"max=200" label:"Area"`
	Category     string `json:"category" validate:"max=100" label:"Category"`
}

type userOut struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	LoginID      string `json:"login_id"`
	Role         string `json:"role"`
	BusinessName string `json:"business_name,omitempty"`
}

type registerOut struct {
	Message string  `json:"message"`
	User    userOut `json:"user"`
}

const (
	loginTaken   = "A user with this login ID already exists."
	adminRefused = "Administrator accounts cannot be self-registered."
)

// HandleRegister handles POST /register. The new account signs in through
// /login afterwards.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := formutil.Bind(w, r, &in); err != nil {
		errorsfeature.WriteMessage(w, formutil.StatusOf(err), err.Error())
		return
	}

	role := normalize.Role(in.Role)
	if role == models.RoleAdmin {
		errorsfeature.WriteMessage(w, http.StatusForbidden, adminRefused)
		return
	}

	u := models.User{
		FullName: htmlsanitize.PlainText(in.FullName),
		LoginID:  in.LoginID,
		Email:    in.Email,
		Role:     role,
		Status:   models.UserActive,
	}
	if role == models.RoleSupplier {
		u.BusinessName = normalize.Name(htmlsanitize.PlainText(in.BusinessName))
		u.Phone = normalize.QueryParam(in.Phone)
		u.Area = normalize.Name(htmlsanitize.PlainText(in.Area))
		u.Category = normalize.Name(htmlsanitize.PlainText(in.Category))
	}
	if normalize.Name(u.FullName) == "" {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Full name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// The unique index on login_id_ci still catches concurrent sign-ups.
	switch _, err := h.Users.GetByLoginID(ctx, in.LoginID); {
	case err == nil:
		errorsfeature.WriteMessage(w, http.StatusBadRequest, loginTaken)
		return
	case !errors.Is(err, userstore.ErrNotFound):
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	created, err := h.Users.Create(ctx, u, in.Password)
	switch {
	case errors.Is(err, userstore.ErrDuplicateLoginID):
		errorsfeature.WriteMessage(w, http.StatusBadRequest, loginTaken)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB create user", err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, created.ID, created.LoginID, created.Role)
	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role))

	errorsfeature.WriteJSON(w, http.StatusCreated, registerOut{
		Message: "Registration successful",
		User: userOut{
			ID:           created.ID.Hex(),
			FullName:     created.FullName,
			LoginID:      created.LoginID,
			Role:         created.Role,
			BusinessName: created.BusinessName,
		},
	})
}
