// internal/app/features/dashboard/common.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
)

// base carries the fields every dashboard shares.
type base struct {
	Role     string `json:"role"`
	UserName string `json:"user_name"`
}

func baseOf(r *http.Request, p authz.Principal) base {
	_, name, _, _ := authz.UserCtx(r)
	return base{Role: p.Role, UserName: name}
}

// dashboardTimeout bounds the queries behind one dashboard.
var dashboardTimeout = timeouts.Medium
