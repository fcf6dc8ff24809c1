package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every document span is started from
const TracerName = "generatordok"

// Span and metric attribute keys
const (
	AttrDocType        attribute.Key = "doc.type"
	AttrDocumentNumber attribute.Key = "doc.number"
	AttrItemCount      attribute.Key = "doc.item_count"
	AttrStampVariant   attribute.Key = "stamp.variant"
	AttrBackground     attribute.Key = "background.selector"
	AttrExportID       attribute.Key = "export.id"
	AttrFileName       attribute.Key = "export.file_name"
	AttrOutcome        attribute.Key = "export.outcome"
	AttrExportStage    attribute.Key = "export.stage"
	AttrSizeBytes      attribute.Key = "export.size_bytes"
	AttrRasterWidth    attribute.Key = "raster.width"
	AttrRasterHeight   attribute.Key = "raster.height"
)

// StartSpan starts an internal span named "{component}.{operation}" on the
// global provider, so it is a no-op until a TracerProvider is installed.
//
//	ctx, span := telemetry.StartSpan(ctx, "export", "pdf", telemetry.AttrDocType.String("receipt"))
//	defer telemetry.End(span, &err)
func StartSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	name := component
	if operation != "" {
		name += "." + operation
	}
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End finishes the span, recording *errp when it is non-nil.
// Intended for use with a named error return.
func End(span trace.Span, errp *error) {
	if errp != nil && *errp != nil {
		RecordError(span, *errp)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddEvent adds a timestamped event to the span
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
