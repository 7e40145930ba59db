package errx

import (
	"context"
	"errors"
	"net/http"
)

// WrapDependency maps a completion-service or catalog failure to the unified
// error type. Deadline hits map to 504, everything else to 502.
func WrapDependency(err error) *AppError {
	if err == nil {
		return nil
	}

	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return New(err, status, DependencyErrorMessage)
}

// IsDependency reports whether the chain carries a dependency failure.
func IsDependency(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Status == http.StatusBadGateway || appErr.Status == http.StatusGatewayTimeout
}
