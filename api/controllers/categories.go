package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	catalogsvc "github.com/adewalecodes/buildbazaar-backend/internal/catalog"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
)

// PublicCategories serves the catalog sections without authentication.
func PublicCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryType, err := validators.ParseCategoryTypeFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListCategories(r.Context(), categoryType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]categoryResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, categoryResponse{
				ID:        row.ID,
				Name:      row.Name,
				Slug:      row.Slug,
				Type:      string(row.Type),
				SortOrder: row.SortOrder,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Type      string    `json:"type"`
	SortOrder int       `json:"sort_order"`
}
