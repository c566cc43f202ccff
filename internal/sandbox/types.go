package sandbox

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredential indicates no provisioning API key was configured.
// This is a pre-flight configuration error: no sandbox work has started.
var ErrMissingCredential = errors.New("sandbox: missing api key")

// ErrTeardown indicates the scoped callback completed but the sandbox could
// not be deleted afterwards. The callback's work is intact.
var ErrTeardown = errors.New("sandbox: teardown failed")

// Handle identifies one live sandbox. It is the sole capability needed for
// exec, file and teardown operations.
type Handle struct {
	ID string
}

// ExecResult captures one remote command invocation.
type ExecResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// APIError represents a non-2xx response from the provisioning API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "sandbox: api error <nil>"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" && len(e.Body) > 0 {
		msg = strings.TrimSpace(string(e.Body))
	}
	if msg != "" {
		return fmt.Sprintf("sandbox: api error (%s): %s", e.Status, msg)
	}
	return fmt.Sprintf("sandbox: api error (%s)", e.Status)
}

// retryable reports whether the failure class is worth another attempt.
// Server faults and transport errors are; client errors are not.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 && apiErr.StatusCode <= 599
	}
	return true
}
