package httprequest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mobai/mobai-http/engine/core"
	"github.com/mobai/mobai-http/engine/executor"
	"github.com/mobai/mobai-http/engine/tool/builtin"
	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/tidwall/gjson"
)

// RequestExecutor performs the HTTP exchange.
type RequestExecutor interface {
	Execute(ctx context.Context, spec executor.RequestSpec) (*executor.ResponseEnvelope, error)
}

// BodyTransformer rewrites a JSON response body fetched from endpoint.
type BodyTransformer interface {
	Transform(ctx context.Context, body []byte, endpoint string) ([]byte, error)
}

// Handler serves http_request calls. Every failure becomes an error result;
// the returned Go error is always nil.
type Handler struct {
	exec        RequestExecutor
	transformer BodyTransformer
	telemetry   *builtin.Telemetry
}

func NewHandler(exec RequestExecutor, transformer BodyTransformer, telemetry *builtin.Telemetry) *Handler {
	return &Handler{exec: exec, transformer: transformer, telemetry: telemetry}
}

func (h *Handler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	status := builtin.StatusFailure
	responseBytes := 0
	errorCode := ""
	defer func() {
		h.telemetry.RecordInvocation(ctx, toolID, status, time.Since(start), responseBytes, errorCode)
	}()

	args, err := decodeArgs(req.GetArguments())
	if err != nil {
		errorCode = builtin.CodeInvalidArgument
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	spec := args.Spec()
	envelope, err := h.exec.Execute(ctx, spec)
	if err != nil {
		errorCode = builtin.ErrorCode(err)
		return mcp.NewToolResultError(failureText(err)), nil
	}
	responseBytes = len(envelope.RawBody)
	body, err := h.renderBody(ctx, envelope.RawBody, spec.URL)
	if err != nil {
		errorCode = builtin.ErrorCode(err)
		logger.FromContext(ctx).Error("Failed to externalize screenshots", "url", core.RedactURL(spec.URL), "error", err)
		return mcp.NewToolResultError(failureText(err)), nil
	}
	logger.FromContext(ctx).Info(
		"Executed http_request",
		"method", spec.Method,
		"url", core.RedactURL(spec.URL),
		"status_code", envelope.StatusCode,
		"duration_ms", envelope.Duration.Milliseconds(),
	)
	isError := envelope.StatusCode >= http.StatusBadRequest
	if !isError {
		status = builtin.StatusSuccess
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(formatResult(envelope, body))},
		IsError: isError,
	}, nil
}

// renderBody pretty-prints a JSON body after transformation and passes any
// other payload through as text.
func (h *Handler) renderBody(ctx context.Context, raw []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(raw) {
		return string(raw), nil
	}
	transformed := raw
	if h.transformer != nil {
		var err error
		if transformed, err = h.transformer.Transform(ctx, raw, endpoint); err != nil {
			return "", err
		}
	}
	return prettyJSON(transformed), nil
}

func failureText(err error) string {
	var (
		timeoutErr    *core.TimeoutError
		validationErr *core.ValidationError
		networkErr    *core.NetworkError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return timeoutErr.Error()
	case errors.As(err, &validationErr):
		return "Error: " + validationErr.Error()
	case errors.As(err, &networkErr) && networkErr.Cause != nil:
		return "Request failed: " + networkErr.Cause.Error()
	default:
		return "Request failed: " + err.Error()
	}
}
