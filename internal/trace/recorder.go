// Package trace records the container's proposal/confirmation protocol as
// OpenTelemetry spans: one span per proposal, started when the layout
// strategy is invoked and ended when the operation is committed.
package trace

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"tectonic/internal/dom"
	"tectonic/internal/tectonic"
)

// Recorder implements tectonic.Observer.
type Recorder struct {
	mu     sync.Mutex
	ctx    context.Context
	tracer oteltrace.Tracer
	open   map[uint64]oteltrace.Span
}

var _ tectonic.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder that starts spans under ctx.
// A nil tracer records nothing.
func NewRecorder(ctx context.Context, tracer oteltrace.Tracer) *Recorder {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &Recorder{
		ctx:    ctx,
		tracer: tracer,
		open:   make(map[uint64]oteltrace.Span),
	}
}

// Proposed starts the span for p.
func (r *Recorder) Proposed(p tectonic.Proposal) {
	_, span := r.tracer.Start(r.ctx, "tectonic."+p.Op.String(),
		oteltrace.WithAttributes(
			attribute.Int64("tectonic.seq", int64(p.Seq)),
			attribute.String("tectonic.op", p.Op.String()),
			attribute.Int("tectonic.index", p.Index),
			attribute.String("tectonic.item", dom.Label(p.Item)),
		),
	)
	r.mu.Lock()
	r.open[p.Seq] = span
	r.mu.Unlock()
}

// Resolved ends the span for p.
func (r *Recorder) Resolved(p tectonic.Proposal, deferred bool) {
	r.mu.Lock()
	span, ok := r.open[p.Seq]
	delete(r.open, p.Seq)
	r.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attribute.Bool("tectonic.deferred", deferred))
	span.End()
}

// Pending returns the number of proposals still waiting for confirmation.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// Close ends every span that is still open, marking it unconfirmed.
func (r *Recorder) Close() {
	r.mu.Lock()
	open := r.open
	r.open = make(map[uint64]oteltrace.Span)
	r.mu.Unlock()
	for _, span := range open {
		span.SetStatus(codes.Error, "never confirmed")
		span.End()
	}
}
