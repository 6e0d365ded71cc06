package llm

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnavailable indicates the model server is unreachable.
	ErrUnavailable = errors.New("llm server unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// statusError is a non-200 reply from the server.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return "server returned status " + strconv.Itoa(e.code) + ": " + e.body
}

// retryable reports whether another attempt could succeed. Client errors
// other than 429 will fail the same way again.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == 429
	}
	return true
}
