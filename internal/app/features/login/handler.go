// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/dalemusser/sahayog/internal/app/system/inputval"
	"github.com/dalemusser/sahayog/internal/app/system/limits"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/sahayog/internal/app/system/ratelimit"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *errorsfeature.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}

type loginInput struct {
	LoginID  string `json:"login_id" validate:"required,max=200" label:"Login ID"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}

// userOut is the public part of the signed-in user.
type userOut struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	LoginID      string `json:"login_id"`
	Role         string `json:"role"`
	BusinessName string `json:"business_name,omitempty"`
	Area         string `json:"area,omitempty"`
}

// loginOut carries the bearer token for API clients; browsers use the
// session cookie set alongside it.
type loginOut struct {
	Message   string    `json:"message"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	User      userOut   `json:"user"`
}

const badCredentials = "Invalid login ID or password."

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLoginBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body", err, "Invalid JSON body.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, res.First())
		return
	}
	loginID := normalize.LoginID(in.LoginID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if ok, reason := h.Limiter.Check(r, loginID); !ok {
		h.AuditLog.LoginFailedRateLimit(ctx, r, loginID)
		w.Header().Set("Retry-After", "60")
		errorsfeature.WriteMessage(w, http.StatusTooManyRequests, reason)
		return
	}

	/*── look-up user by login_id_ci (case/diacritic-insensitive) ──────────*/

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		errorsfeature.WriteMessage(w, http.StatusUnauthorized, badCredentials)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !userstore.CheckPassword(u, in.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, loginID)
		errorsfeature.WriteMessage(w, http.StatusUnauthorized, badCredentials)
		return
	}

	/*── check status: disabled users cannot log in ────────────────────────*/

	if normalize.Status(u.Status) == models.UserDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, loginID)
		errorsfeature.WriteMessage(w, http.StatusForbidden,
			"Your account is currently disabled. Please contact an administrator.")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session", err)
		return
	}

	out := loginOut{
		Message: "Login successful",
		User: userOut{
			ID:           u.ID.Hex(),
			FullName:     u.FullName,
			LoginID:      u.LoginID,
			Role:         u.Role,
			BusinessName: u.BusinessName,
			Area:         u.Area,
		},
	}
	if ti := h.SessionMgr.Tokens(); ti != nil {
		token, exp, err := ti.Issue(auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, LoginID: u.LoginID, Role: u.Role})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "issue token", err)
			return
		}
		out.Token, out.ExpiresAt = token, exp.UTC()
	}

	h.Limiter.ResetLogin(loginID)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, loginID, "password")
	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	errorsfeature.WriteJSON(w, http.StatusOK, out)
}
