// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a principal can hold.
const (
	RoleVendor   = "vendor"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

// Account statuses. Disabled users cannot sign in and lose existing sessions.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// Roles is the set of allowed user roles.
var Roles = []string{RoleVendor, RoleSupplier, RoleAdmin}

// IsValidRole reports whether r is one of Roles.
func IsValidRole(r string) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents vendors, suppliers, and admins.
//
// Suppliers carry an optional business profile that the supplier directory
// shows next to their catalog.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	LoginID      string             `bson:"login_id" json:"login_id"`
	LoginIDCI    string             `bson:"login_id_ci" json:"-"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // vendor | supplier | admin
	Status       string             `bson:"status" json:"status"`

	BusinessName string `bson:"business_name,omitempty" json:"business_name,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Area         string `bson:"area,omitempty" json:"area,omitempty"`
	Category     string `bson:"category,omitempty" json:"category,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
