package controllers

import (
	"context"
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/payments"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type HashGenerator interface {
	GenerateHash(ctx context.Context, req payments.HashRequest) (*payments.HashResponse, error)
}

// PaymentGenerateHash signs a checkout request for the PayHere client.
func PaymentGenerateHash(svc HashGenerator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "payment")
			return
		}
		var body payments.HashRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.GenerateHash(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
