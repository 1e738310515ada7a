package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

type slotBody struct {
	Time  string `json:"time" validate:"required,hhmm"`
	Inner struct {
		Email string `json:"email" validate:"required,email"`
	} `json:"inner"`
}

func TestDecodeJSONBodyValidatesClockAndNestedFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"time":"25:00","inner":{"email":"nope"}}`))
	var body slotBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "must be a time in HH:MM format", details["time"])
	assert.Equal(t, "must be a valid email", details["inner.email"])
}

func TestDecodeJSONBodyAcceptsSeconds(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"time":"09:30:00","inner":{"email":"a@b.co"}}`))
	var body slotBody
	require.NoError(t, DecodeJSONBody(req, &body))
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"time":"09:30","extra":1}`))
	var body slotBody
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &body), pkgerrors.CodeValidation))
}

func TestParsePageParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&size=20&sortBy=total_amount&sortDir=ASC", nil)
	params, err := ParsePageParams(req)
	require.NoError(t, err)
	assert.Equal(t, pagination.Params{Page: 2, Size: 20, SortBy: "total_amount", SortDir: pagination.SortAsc}, params)

	req = httptest.NewRequest(http.MethodGet, "/?size=500", nil)
	_, err = ParsePageParams(req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestOptionalQueryParsers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?featured=true&minRating=4.5&date=2026-05-01&minExperience=3", nil)

	b, err := ParseOptionalBool(req, "featured")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	d, err := ParseOptionalDecimal(req, "minRating")
	require.NoError(t, err)
	assert.Equal(t, "4.5", d.String())

	date, err := ParseOptionalDate(req, "date")
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", date.Format("2006-01-02"))

	n, err := ParseOptionalInt(req, "minExperience", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, *n)

	missing, err := ParseOptionalUUID(req, "veterinarianId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	bad := httptest.NewRequest(http.MethodGet, "/?date=05-01-2026", nil)
	_, err = ParseOptionalDate(bad, "date")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPathUUID(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	_, err := PathUUID(req, "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
	assert.Equal(t, "owner asked", SanitizeString("owner\x00 asked\x07", 0))
	// "පූසා" is four runes of three bytes each; a cap of 7 keeps two whole runes.
	assert.Equal(t, "පූ", SanitizeString("පූසා", 7))
}
