// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	metricsstore "github.com/dalemusser/sahayog/internal/app/store/metrics"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"go.uber.org/zap"
)

type adminData struct {
	base
	Counts metricsstore.Counts `json:"counts"`
}

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request, p authz.Principal) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout())
	defer cancel()

	data := adminData{
		base:   baseOf(r, p),
		Counts: metricsstore.FetchDashboardCounts(ctx, h.DB),
	}

	h.Log.Debug("admin dashboard served", zap.String("user_id", p.ID.Hex()))
	errorsfeature.WriteJSON(w, http.StatusOK, data)
}
