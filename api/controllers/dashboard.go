package controllers

import (
	"net/http"
	"strings"

	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	dashboardsvc "github.com/adewalecodes/buildbazaar-backend/internal/dashboard"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
)

// DashboardRecords serves the unified activity feed.
func DashboardRecords(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordType, err := validators.ParseRecordTypeFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		statusGroup, err := validators.ParseStatusGroupFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := dashboardsvc.Query{
			Type:        recordType,
			StatusGroup: statusGroup,
			Search:      strings.TrimSpace(r.URL.Query().Get("q")),
		}

		actor := middleware.ActorFromContext(r.Context())
		feed, err := svc.Records(r.Context(), actor, query, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}
