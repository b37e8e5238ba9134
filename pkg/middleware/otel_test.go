package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/livedom/pkg/protocol"
	"github.com/vango-dev/livedom/pkg/server"
)

type recordedSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &recordedSpan{name: name, attrs: make(map[attribute.Key]attribute.Value)}
	cfg := trace.NewSpanStartConfig(opts...)
	span.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

type recordingProvider struct {
	noop.TracerProvider
	name   string
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.name = name
	return p.tracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func TestOpenTelemetryEventSpan(t *testing.T) {
	tp := newRecordingProvider()
	var inner trace.Span
	record := func(ctx context.Context, s *server.Session, next func(context.Context) error) error {
		inner = trace.SpanFromContext(ctx)
		return next(ctx)
	}

	s, button := newSession(t, &server.ServerConfig{
		Middleware: []server.UpdateMiddleware{
			OpenTelemetry(WithTracerProvider(tp), WithTracerName("todo")),
			record,
		},
	})

	ev := &protocol.ClientEvent{Target: button.DOM().ID(), Type: "click"}
	if err := s.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if tp.name != "todo" {
		t.Errorf("tracer name = %q, want todo", tp.name)
	}
	if len(tp.tracer.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.tracer.spans))
	}
	span := tp.tracer.spans[0]
	if span.name != "livedom.click" {
		t.Errorf("span name = %q, want livedom.click", span.name)
	}
	if !span.ended || span.status != codes.Ok {
		t.Errorf("span ended=%v status=%v, want ended with Ok", span.ended, span.status)
	}
	if inner != span {
		t.Error("span not propagated to the next middleware")
	}

	want := map[attribute.Key]string{
		"livedom.session_id":   s.ID,
		"livedom.event_type":   "click",
		"livedom.event_target": attribute.Int64Value(int64(button.DOM().ID())).Emit(),
	}
	for k, v := range want {
		if got := span.attrs[k].Emit(); got != v {
			t.Errorf("attribute %s = %q, want %q", k, got, v)
		}
	}
	// The label text changes once.
	if got := span.attrs["livedom.patch_count"].AsInt64(); got != 1 {
		t.Errorf("livedom.patch_count = %d, want 1", got)
	}
}

func TestOpenTelemetryError(t *testing.T) {
	tp := newRecordingProvider()
	boom := errors.New("boom")
	fail := func(ctx context.Context, s *server.Session, next func(context.Context) error) error {
		next(ctx)
		return boom
	}

	s, _ := newSession(t, &server.ServerConfig{
		Middleware: []server.UpdateMiddleware{OpenTelemetry(WithTracerProvider(tp)), fail},
	})
	if err := s.Update(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want %v", err, boom)
	}

	span := tp.tracer.spans[0]
	if span.name != "livedom.update" {
		t.Errorf("span name = %q, want livedom.update", span.name)
	}
	if span.status != codes.Error {
		t.Errorf("status = %v, want Error", span.status)
	}
	if len(span.errs) != 1 || !errors.Is(span.errs[0], boom) {
		t.Errorf("recorded errors = %v, want [%v]", span.errs, boom)
	}
}

func TestOpenTelemetryFilterAndExtractor(t *testing.T) {
	tp := newRecordingProvider()
	s, button := newSession(t, &server.ServerConfig{
		Middleware: []server.UpdateMiddleware{OpenTelemetry(
			WithTracerProvider(tp),
			WithFilter(func(s *server.Session) bool { return s.Event() != nil }),
			WithAttributeExtractor(func(*server.Session) []attribute.KeyValue {
				return []attribute.KeyValue{attribute.String("app.name", "demo")}
			}),
		)},
	})

	if err := s.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(tp.tracer.spans) != 0 {
		t.Fatalf("spans = %d, want 0 for filtered pass", len(tp.tracer.spans))
	}

	ev := &protocol.ClientEvent{Target: button.DOM().ID(), Type: "click"}
	if err := s.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(tp.tracer.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.tracer.spans))
	}
	if got := tp.tracer.spans[0].attrs["app.name"].AsString(); got != "demo" {
		t.Errorf("app.name = %q, want demo", got)
	}
}

func TestOpenTelemetryGlobalProvider(t *testing.T) {
	s, _ := newSession(t, &server.ServerConfig{
		Middleware: []server.UpdateMiddleware{OpenTelemetry()},
	})
	if err := s.Update(context.Background()); err != nil {
		t.Errorf("Update() error = %v", err)
	}
}
