package controllers

import (
	"net/http"
	"strings"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/products"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// ProductList serves the public catalog with optional category, featured
// and free-text filters.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}

		filters := products.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filters.Category = &category
		}
		featured, err := validators.ParseOptionalBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Featured = featured != nil && *featured

		list, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		var body products.ProductInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body products.ProductInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
