package builtin

import (
	"errors"

	"github.com/mobai/mobai-http/engine/core"
)

// Canonical error codes shared across builtin tool handlers.
const (
	CodeInvalidArgument  = "InvalidArgument"
	CodeDeadlineExceeded = "DeadlineExceeded"
	CodeUnavailable      = "Unavailable"
	CodeStorage          = "StorageFailure"
	CodeInternal         = "Internal"
)

// ErrorCode classifies err against the shared error catalog. A nil error
// has no code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrValidation):
		return CodeInvalidArgument
	case errors.Is(err, core.ErrTimeout):
		return CodeDeadlineExceeded
	case errors.Is(err, core.ErrNetwork):
		return CodeUnavailable
	case errors.Is(err, core.ErrStorage):
		return CodeStorage
	default:
		return CodeInternal
	}
}
