package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zjrosen/hostpad"

// Span names.
const (
	SpanEdit          = "textbox.edit"
	SpanPrefixCatalog = "catalog."
)

// Span attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrRows         = "textbox.rows"
	AttrCols         = "textbox.cols"
	AttrKeys         = "textbox.keys"
	AttrInsertMode   = "textbox.insert_mode"
	AttrHostname     = "host.name"
	AttrMAC          = "host.mac"
	AttrRowsAffected = "db.rows_affected"
	AttrCacheHit     = "cache.hit"
)

// Start opens a span on the global tracer provider.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err, if any, as the span status and ends the span.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NewSessionID returns a fresh id for correlating one edit session
// across logs and spans.
func NewSessionID() string {
	return uuid.New().String()
}
