package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePagination reads limit/offset query parameters with the feed defaults.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	offset, err := ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Offset: offset}, nil
}

// ParsePathUUID reads a uuid path segment already extracted by the router.
func ParsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

// ParseRecordTypeFilter reads the dashboard type filter.
func ParseRecordTypeFilter(r *http.Request) (enums.RecordType, error) {
	value, err := enums.ParseRecordTypeFilter(strings.TrimSpace(r.URL.Query().Get("type")))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter")
	}
	return value, nil
}

// ParseStatusGroupFilter reads the dashboard status_group filter.
func ParseStatusGroupFilter(r *http.Request) (enums.StatusGroup, error) {
	value, err := enums.ParseStatusGroupFilter(strings.TrimSpace(r.URL.Query().Get("status_group")))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status_group filter")
	}
	return value, nil
}

// ParseCategoryTypeFilter reads the optional catalog type filter.
func ParseCategoryTypeFilter(r *http.Request) (*enums.CategoryType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		return nil, nil
	}
	value, err := enums.ParseCategoryType(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category type")
	}
	return &value, nil
}
