// internal/app/features/dashboard/vendor.go
package dashboard

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
)

type vendorData struct {
	base
	Overview orderflow.Overview `json:"overview"`
}

func (h *Handler) ServeVendor(w http.ResponseWriter, r *http.Request, p authz.Principal) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout())
	defer cancel()

	ov, err := h.Engine.VendorOverview(ctx, p)
	if err != nil {
		h.ErrLog.Engine(w, r, "vendor dashboard", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, vendorData{base: baseOf(r, p), Overview: ov})
}
