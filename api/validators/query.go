package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

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

// ParseOptionalInt returns nil when the parameter is absent.
func ParseOptionalInt(r *http.Request, key string, min int) (*int, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	v, err := ParseQueryInt(r, key, 0, min, int(^uint(0)>>1))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ParseOptionalBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

func ParseOptionalDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a number").WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

// ParseOptionalDate reads a YYYY-MM-DD parameter as UTC midnight.
func ParseOptionalDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

func ParseOptionalUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

// ParsePageParams reads page, size, sortBy and sortDir.
func ParsePageParams(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 0, 0, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := ParseQueryInt(r, "size", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	q := r.URL.Query()
	return pagination.Params{
		Page:    page,
		Size:    size,
		SortBy:  strings.TrimSpace(q.Get("sortBy")),
		SortDir: pagination.ParseSortDirection(q.Get("sortDir")),
	}.Normalize(), nil
}

// PathUUID parses a chi URL parameter.
func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

func PathString(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, key+" is required")
	}
	return raw, nil
}
