package executor

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/mobai/mobai-http/engine/core"
	"github.com/mobai/mobai-http/pkg/logger"
)

const (
	DefaultTimeout     = 10 * time.Minute
	DefaultContentType = "application/json"
)

// Config holds executor defaults.
type Config struct {
	DefaultTimeout time.Duration
	ContentType    string
	UserAgent      string
	// Transport replaces the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Executor performs single HTTP exchanges with a bounded deadline.
type Executor struct {
	client         *resty.Client
	validate       *validator.Validate
	defaultTimeout time.Duration
	contentType    string
}

// New creates an executor. Zero values in cfg fall back to package defaults.
func New(cfg Config, log logger.Logger) *Executor {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultTimeout
	}
	if cfg.ContentType == "" {
		cfg.ContentType = DefaultContentType
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}
	client := resty.New().
		SetLogger(restyLogger{log: log.With("component", "executor")}).
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}
	return &Executor{
		client:         client,
		validate:       newSpecValidator(),
		defaultTimeout: cfg.DefaultTimeout,
		contentType:    cfg.ContentType,
	}
}

// DefaultTimeout reports the timeout applied when a spec carries none.
func (e *Executor) DefaultTimeout() time.Duration {
	return e.defaultTimeout
}

// Execute validates spec, sends it and reads the whole response body.
// Errors are *core.ValidationError, *core.TimeoutError or *core.NetworkError;
// an error status is not an error.
func (e *Executor) Execute(ctx context.Context, spec RequestSpec) (*ResponseEnvelope, error) {
	spec = spec.Normalized()
	if err := validateSpec(e.validate, spec); err != nil {
		return nil, err
	}
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := e.client.R().
		SetContext(reqCtx).
		SetHeader("Content-Type", e.contentType)
	for _, name := range sortedKeys(spec.Headers) {
		req.SetHeader(name, spec.Headers[name])
	}
	if spec.HasBody() {
		req.SetBody(spec.Body)
	}

	log := logger.FromContext(ctx).With("method", spec.Method, "url", core.RedactURL(spec.URL))
	log.Debug("Sending request", "headers", core.RedactHeaders(spec.Headers), "timeout", timeout)
	resp, err := req.Execute(spec.Method, spec.URL)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			log.Warn("Request timed out", "timeout", timeout)
			return nil, core.NewTimeoutError(timeout)
		}
		return nil, core.NewNetworkError("send "+spec.Method, err)
	}
	envelope := &ResponseEnvelope{
		StatusCode: resp.StatusCode(),
		StatusText: statusText(resp.StatusCode(), resp.Status()),
		RawBody:    resp.Body(),
		Duration:   resp.Time(),
	}
	log.Debug(
		"Request completed",
		"status", envelope.StatusCode,
		"bytes", len(envelope.RawBody),
		"duration", envelope.Duration,
	)
	return envelope, nil
}

// statusText strips the numeric code from an HTTP status line.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
