package webhooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/internal/payments"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const (
	testMerchant = "1211149"
	testSecret   = "secret"
	successSig   = "E5D8A3CA7557EF9596938731622076E5"
)

func TestPayHereNotify_SuccessAndIdempotent(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := PayHereNotify(newPaymentService(t, recorder), nil)

	for i := 0; i < 2; i++ {
		rec := postNotify(handler, notifyForm(successSig))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if rec.Body.String() != "Received" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	}

	if recorder.calls != 1 {
		t.Fatalf("expected one recorded outcome, got %d", recorder.calls)
	}
	if !recorder.last.Succeeded || recorder.last.OrderNumber != "ORD-1" || recorder.last.TransactionID != "320025071278" {
		t.Fatalf("unexpected outcome %+v", recorder.last)
	}
}

func TestPayHereNotify_BadSignature(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := PayHereNotify(newPaymentService(t, recorder), nil)

	rec := postNotify(handler, notifyForm("DEADBEEF"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if recorder.calls != 0 {
		t.Fatal("forged notification must not reach orders")
	}
}

func TestPayHereNotify_UnknownOrderCanBeRetried(t *testing.T) {
	recorder := &fakeRecorder{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := PayHereNotify(newPaymentService(t, recorder), nil)

	for i := 0; i < 2; i++ {
		rec := postNotify(handler, notifyForm(successSig))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	}
	if recorder.calls != 2 {
		t.Fatalf("guard should be released after failure, got %d calls", recorder.calls)
	}
}

func newPaymentService(t *testing.T, recorder *fakeRecorder) *payments.Service {
	t.Helper()
	guard, err := payments.NewIdempotencyGuard(newMemoryStore(), time.Hour, payments.NotifyScope)
	if err != nil {
		t.Fatalf("guard: %v", err)
	}
	svc, err := payments.NewService(payments.ServiceParams{
		Orders: recorder,
		Guard:  guard,
		Config: config.PayHereConfig{MerchantID: testMerchant, MerchantSecret: testSecret, Currency: "LKR"},
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func notifyForm(sig string) url.Values {
	return url.Values{
		"merchant_id":      {testMerchant},
		"order_id":         {"ORD-1"},
		"payment_id":       {"320025071278"},
		"payhere_amount":   {"1000.00"},
		"payhere_currency": {"LKR"},
		"status_code":      {"2"},
		"md5sig":           {sig},
	}
}

func postNotify(handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/payhere-notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type fakeRecorder struct {
	calls int
	last  orders.PaymentOutcome
	err   error
}

func (f *fakeRecorder) RecordPaymentOutcome(_ context.Context, outcome orders.PaymentOutcome) (*orders.OrderDTO, error) {
	f.calls++
	f.last = outcome
	if f.err != nil {
		return nil, f.err
	}
	return &orders.OrderDTO{OrderNumber: outcome.OrderNumber}, nil
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = "1"
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}
