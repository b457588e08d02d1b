// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated caller handed to every engine operation.
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

// IsVendor reports whether the principal acts as a vendor.
func (p Principal) IsVendor() bool { return p.Role == models.RoleVendor }

// IsSupplier reports whether the principal acts as a supplier.
func (p Principal) IsSupplier() bool { return p.Role == models.RoleSupplier }

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// System is the principal used for scheduled maintenance (expiry sweeps).
var System = Principal{Role: "system"}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. ok=true therefore always means a valid,
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// PrincipalFrom builds the Principal for the signed-in request user.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	role, _, id, ok := UserCtx(r)
	if !ok {
		return Principal{}, false
	}
	return Principal{ID: id, Role: role}, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsVendor reports whether the current request's user is a vendor.
func IsVendor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleVendor
}

// IsSupplier reports whether the current request's user is a supplier.
func IsSupplier(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSupplier
}
