package webhooks

import (
	"context"
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/internal/payments"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const maxNotifyBodyBytes = 64 << 10

type PayHereNotificationService interface {
	HandleNotification(ctx context.Context, n payments.Notification) error
}

// PayHereNotify receives the form-encoded server callback from PayHere.
// Replays are absorbed by the service's idempotency guard.
func PayHereNotify(svc PayHereNotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxNotifyBodyBytes)
		if err := r.ParseForm(); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form payload"))
			return
		}

		notification := payments.ParseNotification(r.PostForm)
		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, notification.OrderID)
			ctx = logg.WithFields(ctx, map[string]any{
				"payment_id":  notification.PaymentID,
				"status_code": notification.StatusCode,
			})
		}

		if err := svc.HandleNotification(ctx, notification); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(ctx, "payhere notification processed")
		}
		responses.WriteText(w, http.StatusOK, "Received")
	}
}
