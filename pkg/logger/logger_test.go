package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithOrderNumber(ctx, "ORD-1")

	log.Error(ctx, "boom", errors.New("boom"))

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"order_number":"ORD-1"`)
	assert.Contains(t, buf.String(), `"stack"`)
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	assert.Contains(t, buf.String(), `"stack"`)

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	quiet.Warn(context.Background(), "warny")
	assert.NotContains(t, buf.String(), `"stack"`)
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("info"), Output: buf})
	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
}

func TestLoggerFieldsVisibleThroughZerologCtx(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "petcare", Level: ParseLevel("info"), Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{"appointment_id": "a-1", "vet": "dr-perera"})
	zerolog.Ctx(ctx).Info().Msg("booked")

	assert.Contains(t, buf.String(), `"appointment_id":"a-1"`)
	assert.Contains(t, buf.String(), `"service":"petcare"`)
}
