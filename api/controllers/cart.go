package controllers

import (
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/cart"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		dto, err := svc.GetActiveCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CartCount(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		count, err := svc.ItemCount(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": count})
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body cart.AddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.AddItem(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		itemID, err := validators.PathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body cart.UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateItemQuantity(r.Context(), userID, itemID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		itemID, err := validators.PathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.RemoveItem(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
