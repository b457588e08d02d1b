// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/sahayog/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off".
type Config struct {
	// Auth covers login and logout.
	Auth string
	// Order covers group-order lifecycle events and review submissions.
	Order string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and to structured logs (via zap).
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when only zap output is
// wanted.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.OrderID != nil {
		fields = append(fields, zap.String("order_id", event.OrderID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ActorRole != "" {
		fields = append(fields, zap.String("actor_role", event.ActorRole))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryOrder, audit.CategoryReview:
		setting = l.config.Order
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID, via string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"login_id": loginID,
			"via":      via,
		},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_login_id": attemptedLoginID,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"login_id": loginID},
	})
}

// LoginFailedUserDisabled logs a failed login due to disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details:       map[string]string{"login_id": loginID},
	})
}

// LoginFailedRateLimit logs a login refused by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limited",
		Details:       map[string]string{"login_id": loginID},
	})
}

// Logout logs a user logout. userIDStr comes from the SessionUser.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// UserRegistered logs a self-service sign-up.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"login_id": loginID,
			"role":     role,
		},
	})
}

// --- Group Order Events ---

func (l *Logger) orderEvent(ctx context.Context, eventType string, orderID primitive.ObjectID, actorID *primitive.ObjectID, actorRole string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryOrder,
		EventType: eventType,
		OrderID:   &orderID,
		ActorID:   actorID,
		ActorRole: actorRole,
		Success:   true,
		Details:   details,
	})
}

// OrderCreated logs a vendor opening a group order.
func (l *Logger) OrderCreated(ctx context.Context, actorID, orderID primitive.ObjectID, totalQuantity, creatorQuantity int) {
	l.orderEvent(ctx, audit.EventOrderCreated, orderID, &actorID, "vendor", map[string]string{
		"total_quantity":   intToString(totalQuantity),
		"creator_quantity": intToString(creatorQuantity),
	})
}

// OrderJoined logs a vendor committing quantity to a group order.
func (l *Logger) OrderJoined(ctx context.Context, actorID, orderID primitive.ObjectID, quantity, remaining int) {
	l.orderEvent(ctx, audit.EventOrderJoined, orderID, &actorID, "vendor", map[string]string{
		"quantity":  intToString(quantity),
		"remaining": intToString(remaining),
	})
}

// OrderPlaced logs the creator submitting a fully allocated order.
func (l *Logger) OrderPlaced(ctx context.Context, actorID, orderID primitive.ObjectID, allocated int) {
	l.orderEvent(ctx, audit.EventOrderPlaced, orderID, &actorID, "vendor", map[string]string{
		"allocated": intToString(allocated),
	})
}

// OrderCancelled logs the creator cancelling an order.
func (l *Logger) OrderCancelled(ctx context.Context, actorID, orderID primitive.ObjectID) {
	l.orderEvent(ctx, audit.EventOrderCancelled, orderID, &actorID, "vendor", nil)
}

// OrderExpired logs the expiry sweep cancelling an order past its deadline.
func (l *Logger) OrderExpired(ctx context.Context, orderID primitive.ObjectID, allocated, total int) {
	l.orderEvent(ctx, audit.EventOrderExpired, orderID, nil, "system", map[string]string{
		"allocated":      intToString(allocated),
		"total_quantity": intToString(total),
	})
}

// OrderAccepted logs a supplier taking on a placed order.
func (l *Logger) OrderAccepted(ctx context.Context, supplierID, orderID primitive.ObjectID) {
	l.orderEvent(ctx, audit.EventOrderAccepted, orderID, &supplierID, "supplier", nil)
}

// OrderCompleted logs a supplier marking an order delivered.
func (l *Logger) OrderCompleted(ctx context.Context, supplierID, orderID primitive.ObjectID) {
	l.orderEvent(ctx, audit.EventOrderCompleted, orderID, &supplierID, "supplier", nil)
}

// --- Review Events ---

// ReviewSubmitted logs a vendor rating a supplier for a completed order.
func (l *Logger) ReviewSubmitted(ctx context.Context, vendorID, orderID, supplierID primitive.ObjectID, rating int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryReview,
		EventType: audit.EventReviewSubmitted,
		OrderID:   &orderID,
		UserID:    &supplierID,
		ActorID:   &vendorID,
		ActorRole: "vendor",
		Success:   true,
		Details:   map[string]string{"rating": intToString(rating)},
	})
}

func intToString(i int) string {
	return strconv.Itoa(i)
}
