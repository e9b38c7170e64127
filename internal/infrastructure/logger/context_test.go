package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx := WithContext(ctx, logger)

	retrieved := FromContext(newCtx)
	assert.Equal(t, logger, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()

	logger := FromContext(ctx)

	// Should return a no-op logger, never nil
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Info("should not panic")
	})
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	requestID := "req-12345"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	require.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
	assert.Equal(t, newLogger, FromContext(newCtx))
}

func TestWithActor(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	actor := "warehouse-clerk"

	newCtx, newLogger := WithActor(ctx, logger, actor)

	require.NotNil(t, newLogger)
	assert.Equal(t, actor, GetActor(newCtx))
	assert.Equal(t, newLogger, FromContext(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
}

func TestGetActor_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetActor(ctx))
}

func TestChainedContextEnrichment(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithActor(ctx, logger, "buyer-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "buyer-1", GetActor(ctx))
	assert.Equal(t, logger, FromContext(ctx))
}

func TestContextKeys_AreDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
	assert.NotEqual(t, RequestIDKey, ActorKey)
	assert.NotEqual(t, LoggerKey, ActorKey)
}

func newObservedContextLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestL_InjectsContextFields(t *testing.T) {
	base, logs := newObservedContextLogger()

	ctx := WithContext(context.Background(), base)
	ctx = context.WithValue(ctx, RequestIDKey, "req-abc")
	ctx = context.WithValue(ctx, ActorKey, "clerk-7")

	L(ctx).Info("order received")

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-abc", fields["request_id"])
	assert.Equal(t, "clerk-7", fields["actor"])
}

func TestL_EmptyContext(t *testing.T) {
	// No logger in context: must not panic, logs go nowhere
	assert.NotPanics(t, func() {
		L(context.Background()).Info("silent")
	})
}

func TestWithLogger_UsesProvidedLogger(t *testing.T) {
	base, logs := newObservedContextLogger()

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-xyz")

	WithLogger(ctx, base).Warn("slow delivery")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow delivery", entries[0].Message)
	assert.Equal(t, "req-xyz", entries[0].ContextMap()["request_id"])
}

func TestContextLogger_With(t *testing.T) {
	base, logs := newObservedContextLogger()
	ctx := WithContext(context.Background(), base)

	L(ctx).With(zap.String("po_number", "PO-2026-00001")).Info("created")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "PO-2026-00001", entries[0].ContextMap()["po_number"])
}

func TestContextLogger_Zap(t *testing.T) {
	base, logs := newObservedContextLogger()
	ctx := WithContext(context.Background(), base)
	ctx = context.WithValue(ctx, RequestIDKey, "req-zap")

	zl := L(ctx).Zap()
	require.NotNil(t, zl)
	zl.Info("direct")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-zap", entries[0].ContextMap()["request_id"])
}
