package httprequest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mobai/mobai-http/engine/core"
	"github.com/mobai/mobai-http/engine/executor"
)

// ErrMissingRequired is reported when method or url is absent.
var ErrMissingRequired = errors.New("'method' and 'url' are required parameters")

// Args are the decoded tool arguments.
type Args struct {
	Method  string            `mapstructure:"method"`
	URL     string            `mapstructure:"url"`
	Body    string            `mapstructure:"body"`
	Headers map[string]string `mapstructure:"headers"`
	// TimeoutMs is in milliseconds; zero or less selects the default.
	TimeoutMs float64 `mapstructure:"timeout"`
}

func decodeArgs(payload map[string]any) (Args, error) {
	var args Args
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &args,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Args{}, fmt.Errorf("failed to build argument decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return Args{}, core.NewValidationError("", fmt.Sprintf("invalid arguments: %v", err))
	}
	if strings.TrimSpace(args.Method) == "" || strings.TrimSpace(args.URL) == "" {
		return Args{}, ErrMissingRequired
	}
	return args, nil
}

// Spec converts the arguments into a request specification.
func (a Args) Spec() executor.RequestSpec {
	var timeout time.Duration
	if a.TimeoutMs > 0 {
		timeout = time.Duration(a.TimeoutMs * float64(time.Millisecond))
	}
	return executor.RequestSpec{
		Method:  a.Method,
		URL:     a.URL,
		Body:    a.Body,
		Headers: a.Headers,
		Timeout: timeout,
	}
}
