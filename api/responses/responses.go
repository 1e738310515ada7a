package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// SuccessEnvelope wraps every successful JSON body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// messages for these codes are safe to show to the caller verbatim
var publicMessageCodes = map[pkgerrors.Code]bool{
	pkgerrors.CodeValidation:          true,
	pkgerrors.CodeForbidden:           true,
	pkgerrors.CodeUnauthorized:        true,
	pkgerrors.CodeNotFound:            true,
	pkgerrors.CodeConflict:            true,
	pkgerrors.CodeStateConflict:       true,
	pkgerrors.CodeIdempotency:         true,
	pkgerrors.CodeRateLimit:           true,
	pkgerrors.CodeInsufficientStock:   true,
	pkgerrors.CodeOrderCreationFailed: true,
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteText answers gateways that expect a plain-text acknowledgement.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteError renders err as the error envelope and logs it once. Untyped
// errors are reported as internal.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if publicMessageCodes[typed.Code()] && typed.Message() != "" {
		msg = typed.Message()
	}

	payload := ErrorEnvelope{Error: APIError{Code: string(typed.Code()), Message: msg}}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}

	if logg != nil {
		logError(ctx, logg, meta.HTTPStatus, err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func logError(ctx context.Context, logg *logger.Logger, status int, err error) {
	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"error":       dump.TopMessage,
		"error_code":  dump.Code,
		"error_chain": dump.Chain,
		"status":      status,
		"retryable":   dump.Retryable,
	}
	if dump.PGMessage != "" {
		fields["db_message"] = dump.PGMessage
	}
	if dump.PGCode != "" {
		fields["pg_code"] = dump.PGCode
		fields["pg_constraint"] = dump.PGConstraint
		fields["pg_table"] = dump.PGTable
		fields["pg_detail"] = dump.PGDetail
	}
	ctx = logg.WithFields(ctx, fields)
	if status >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
		return
	}
	logg.Warn(ctx, "request.rejected")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
