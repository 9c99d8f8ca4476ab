package profiler_test

import (
	"context"
	"testing"

	"github.com/habedi/slip/lisp"
	"github.com/habedi/slip/lisp/x/profiler"
	"github.com/habedi/slip/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testLisp = `
(define (add-it a b) (+ a b))
(define (add-it-again a b) (add-it a (add-it b b)))
(add-it-again 1 2)
((lambda (x) (add-it x x)) 4)
`

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)

	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	assert.NoError(t, ppa.Enable())
	lerr := lisp.InitializeUserEnv(env)
	require.NoError(t, lisp.GoError(lerr))
	lerr = env.LoadString("test.lisp", testLisp, 100000)
	require.NoError(t, lisp.GoError(lerr))
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), 3, "Expected at least three spans")
	names := make(map[string]bool)
	for _, span := range spans {
		names[span.Name] = true
	}
	assert.True(t, names["add-it"], "Expected a span for add-it")
	assert.True(t, names["add-it-again"], "Expected a span for add-it-again")
	assert.True(t, names["lambda"], "Expected a span for the anonymous lambda")
}

func TestFunLabeler(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)

	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	// custom labels are sanitized: whitespace collapses to underscores
	labeler := func(runtime *lisp.Runtime, fun *lisp.LVal) string {
		if name := fun.FunData().Name; name != "" {
			return "traced " + name
		}
		return ""
	}
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithFunLabeler(labeler))
	assert.NoError(t, ppa.Enable())
	lerr := lisp.InitializeUserEnv(env)
	require.NoError(t, lisp.GoError(lerr))
	lerr = env.LoadString("test.lisp", testLisp, 100000)
	require.NoError(t, lisp.GoError(lerr))
	assert.NoError(t, ppa.Complete())

	names := make(map[string]bool)
	for _, span := range exporter.GetSpans() {
		names[span.Name] = true
	}
	assert.True(t, names["traced_add-it"], "Expected a relabeled span for add-it")
	assert.True(t, names["lambda"], "Expected the anonymous lambda to keep its default label")
}

func TestNewOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil) //nolint:staticcheck // nil context is the case under test
	assert.Error(t, ppa.Enable())
}

func TestNewOpenTelemetryAnnotatorDisabled(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)

	// Without Enable the profiler must not record spans.
	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	_ = profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	lerr := lisp.InitializeUserEnv(env)
	require.NoError(t, lisp.GoError(lerr))
	lerr = env.LoadString("test.lisp", testLisp, 100000)
	require.NoError(t, lisp.GoError(lerr))

	assert.Empty(t, exporter.GetSpans())
}
