package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig())
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter = ExporterFile
	_, err := NewProvider(context.Background(), cfg)
	require.ErrorContains(t, err, "file_path required")

	cfg.Exporter = "zipkin"
	_, err = NewProvider(context.Background(), cfg)
	require.ErrorContains(t, err, "unsupported exporter type")
}

func TestFileExporter_WritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	tracer := tp.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "registration.register")
	require.NotEmpty(t, TraceID(ctx))
	_, child := tracer.Start(ctx, "identity.create_user")
	child.SetAttributes(attribute.String("registration.role", "doctor"))
	child.RecordError(errors.New("email in use"))
	child.SetStatus(codes.Error, "email in use")
	child.End()
	parent.End()

	require.NoError(t, tp.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)

	require.Equal(t, "identity.create_user", records[0].Name)
	require.Equal(t, "ERROR", records[0].Status)
	require.Equal(t, "doctor", records[0].Attributes["registration.role"])
	require.Equal(t, []string{"exception"}, records[0].Events)
	require.Equal(t, records[1].SpanID, records[0].ParentSpanID)
	require.Equal(t, records[1].TraceID, records[0].TraceID)
}

func TestTraceID_Empty(t *testing.T) {
	require.Empty(t, TraceID(context.Background()))
}
