package controllers

import (
	"net/http"
	"strings"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminSearchOrders runs a free-text search when q is set and a structured
// search on status, orderNumber, customerName and userId otherwise.
func AdminSearchOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		if text := strings.TrimSpace(q.Get("q")); text != "" {
			page, err := svc.QueryOrders(r.Context(), text, params)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, page)
			return
		}

		criteria := orders.SearchCriteria{
			OrderNumber:  strings.TrimSpace(q.Get("orderNumber")),
			CustomerName: strings.TrimSpace(q.Get("customerName")),
		}
		if raw := strings.TrimSpace(q.Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			criteria.Status = &status
		}
		if criteria.UserID, err = validators.ParseOptionalUUID(r, "userId"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.SearchOrders(r.Context(), criteria, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminRecentOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		list, err := svc.GetRecentOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminOrdersToShip(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		list, err := svc.GetOrdersToBeShipped(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminOrdersByStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		status, ok := pathOrderStatus(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCountOrdersByStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "order")
			return
		}
		status, ok := pathOrderStatus(w, r, logg)
		if !ok {
			return
		}
		count, err := svc.CountByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": status, "count": count})
	}
}

func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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
		var body orders.StatusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(string(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		order, err := svc.UpdateOrderStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminAddTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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
		var body orders.TrackingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.AddTrackingInfo(r.Context(), id, body.TrackingNumber, body.CarrierName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminDeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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
		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func pathOrderStatus(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (enums.OrderStatus, bool) {
	raw, err := validators.PathString(r, "status")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return "", false
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
		return "", false
	}
	return status, true
}
