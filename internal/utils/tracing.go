package utils

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "locar-api"

// TraceOperation starts a span carrying attributes. The returned finish ends it,
// recording the duration and, when err is not nil, the error.
func TraceOperation(ctx context.Context, operationName string, attributes map[string]interface{}) (context.Context, trace.Span, func(err error)) {
	start := time.Now()

	otelAttrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(k, val))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(k, val))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(k, val))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(k, val))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(k, val))
		default:
			otelAttrs = append(otelAttrs, attribute.String(k, "unknown_type"))
		}
	}

	spanCtx, span := otel.Tracer(tracerName).Start(ctx, operationName, trace.WithAttributes(otelAttrs...))

	finish := func(err error) {
		span.SetAttributes(attribute.Int64("duration_ms", time.Since(start).Milliseconds()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return spanCtx, span, finish
}

// TraceDatabaseOperation traces one MongoDB operation on collection
func TraceDatabaseOperation(ctx context.Context, operation, collection string) (context.Context, trace.Span, func(err error)) {
	return TraceOperation(ctx, "db."+operation, map[string]interface{}{
		"db.operation":  operation,
		"db.collection": collection,
		"db.system":     "mongodb",
	})
}

// TraceSyncRun traces one employee synchronization run
func TraceSyncRun(ctx context.Context, mode string) (context.Context, trace.Span, func(err error)) {
	return TraceOperation(ctx, "sync.run", map[string]interface{}{
		"sync.mode": mode,
	})
}
