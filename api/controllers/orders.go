package controllers

import (
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// OrderCreate checks out the selected cart items for the caller.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body orders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreateOrder(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListUserOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ownsOrder(r, order) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderByNumber(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		number, err := validators.PathString(r, "orderNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetByOrderNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ownsOrder(r, order) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel cancels one of the caller's orders and restores its stock.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body orders.CancelRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		current, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ownsOrder(r, current) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		order, err := svc.CancelOrder(r.Context(), id, validators.SanitizeString(body.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ownsOrder(r *http.Request, order *orders.OrderDTO) bool {
	if middleware.RoleFromContext(r.Context()) == enums.UserRoleAdmin {
		return true
	}
	caller, ok := middleware.UserUUIDFromContext(r.Context())
	return ok && order.UserID == caller
}
