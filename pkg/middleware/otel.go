package middleware

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livedom/pkg/server"
)

// Default tracer name for livedom applications.
const defaultTracerName = "livedom"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "livedom").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Filter determines which update passes to trace.
	// If nil, all passes are traced.
	Filter func(s *server.Session) bool

	// AttributeExtractor adds custom attributes to every span.
	AttributeExtractor func(s *server.Session) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithFilter sets a filter function for update passes.
func WithFilter(filter func(s *server.Session) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s *server.Session) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every update pass.
//
// Each span carries the session ID and, for passes triggered by a client
// event, the event type and target node. The number of patches recorded by
// the pass is added when it ends. The span context is passed down the
// chain, so later middleware can start child spans.
//
// Configure the global provider in main() before starting the server, or
// pass one with WithTracerProvider:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) server.UpdateMiddleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(ctx context.Context, s *server.Session, next func(context.Context) error) error {
		if config.Filter != nil && !config.Filter(s) {
			return next(ctx)
		}

		spanName := "livedom.update"
		attrs := []attribute.KeyValue{
			attribute.String("livedom.session_id", s.ID),
		}
		if ev := s.Event(); ev != nil {
			attrs = append(attrs,
				attribute.String("livedom.event_type", ev.Type),
				attribute.String("livedom.event_target", strconv.FormatUint(ev.Target, 10)),
			)
			spanName = "livedom." + ev.Type
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(s)...)
		}

		spanCtx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		before := s.PendingPatches()
		err := next(spanCtx)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(attribute.Int("livedom.patch_count", s.PendingPatches()-before))
		return err
	}
}
