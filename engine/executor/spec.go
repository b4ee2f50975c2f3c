package executor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mobai/mobai-http/engine/core"
)

// Methods lists the accepted HTTP methods.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// bodyMethods are the methods that carry a request body.
var bodyMethods = []string{"POST", "PUT", "PATCH"}

// RequestSpec describes one outgoing HTTP request.
type RequestSpec struct {
	Method  string            `json:"method"  validate:"required,oneof=GET POST PUT PATCH DELETE"`
	URL     string            `json:"url"     validate:"required"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
	// Timeout of zero or less means the executor default.
	Timeout time.Duration `json:"timeout"`
}

// Normalized returns a copy with the method upper-cased and the URL trimmed.
func (s RequestSpec) Normalized() RequestSpec {
	s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
	s.URL = strings.TrimSpace(s.URL)
	return s
}

// HasBody reports whether the body is sent for this method.
func (s RequestSpec) HasBody() bool {
	return s.Body != "" && slices.Contains(bodyMethods, s.Method)
}

// ResponseEnvelope is the raw outcome of a completed exchange. 4xx and 5xx
// statuses are envelopes too.
type ResponseEnvelope struct {
	StatusCode int
	// StatusText is the reason phrase only, e.g. "Not Found".
	StatusText string
	RawBody    []byte
	Duration   time.Duration
}

func newSpecValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateSpec maps the first validator failure onto a ValidationError.
func validateSpec(v *validator.Validate, spec RequestSpec) error {
	err := v.Struct(spec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return core.NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return core.NewValidationError(fe.Field(), "is required")
	case "oneof":
		return core.NewValidationError(
			fe.Field(),
			fmt.Sprintf("%q is not supported, use one of %s", fe.Value(), strings.Join(Methods, ", ")),
		)
	default:
		return core.NewValidationError(fe.Field(), fmt.Sprintf("failed %q check", fe.Tag()))
	}
}
