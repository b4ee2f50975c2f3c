package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/mobai/mobai-http/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Telemetry holds the instruments shared by builtin tools. A nil *Telemetry
// records nothing.
type Telemetry struct {
	invocations   metric.Int64Counter
	latency       metric.Float64Histogram
	responseBytes metric.Int64Histogram
	blobsSaved    metric.Int64Counter
	blobBytes     metric.Int64Histogram
}

// NewTelemetry registers the builtin tool instruments on meter.
func NewTelemetry(meter metric.Meter) (*Telemetry, error) {
	if meter == nil {
		return nil, nil
	}
	var (
		t   Telemetry
		err error
	)
	if t.invocations, err = meter.Int64Counter(
		"mobai_tool_invocations_total",
		metric.WithDescription("Total tool invocations grouped by status"),
	); err != nil {
		return nil, fmt.Errorf("failed to create invocations counter: %w", err)
	}
	if t.latency, err = meter.Float64Histogram(
		"mobai_tool_latency_seconds",
		metric.WithDescription("Tool invocation latency in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}
	if t.responseBytes, err = meter.Int64Histogram(
		"mobai_tool_response_bytes",
		metric.WithDescription("Upstream response size in bytes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create response size histogram: %w", err)
	}
	if t.blobsSaved, err = meter.Int64Counter(
		"mobai_blobs_saved_total",
		metric.WithDescription("Screenshots written to the blob directory"),
	); err != nil {
		return nil, fmt.Errorf("failed to create blob counter: %w", err)
	}
	if t.blobBytes, err = meter.Int64Histogram(
		"mobai_blob_bytes",
		metric.WithDescription("Size of saved screenshots in bytes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create blob size histogram: %w", err)
	}
	return &t, nil
}

// RecordInvocation records standard metrics for a tool invocation.
// status should be "success" or "failure"; errorCode is optional.
func (t *Telemetry) RecordInvocation(
	ctx context.Context,
	toolID string,
	status string,
	duration time.Duration,
	responseBytes int,
	errorCode string,
) {
	if status == StatusFailure {
		logger.FromContext(ctx).Debug("Tool failure recorded", "tool_id", toolID, "error_code", errorCode)
	}
	if t == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("tool_id", toolID),
		attribute.String("status", status),
	}
	if errorCode != "" {
		attrs = append(attrs, attribute.String("error_code", errorCode))
	}
	t.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.latency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("tool_id", toolID),
		attribute.String("status", status),
	))
	if responseBytes > 0 {
		t.responseBytes.Record(ctx, int64(responseBytes), metric.WithAttributes(
			attribute.String("tool_id", toolID),
		))
	}
}

// RecordBlobSaved counts a saved screenshot by prefix and detected type.
func (t *Telemetry) RecordBlobSaved(ctx context.Context, prefix, mime string, size int) {
	if t == nil {
		return
	}
	t.blobsSaved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prefix", prefix),
		attribute.String("mime", mime),
	))
	t.blobBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("prefix", prefix)))
}
