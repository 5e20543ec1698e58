package youtube

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrQuotaExceeded indicates the project's daily API quota is used up.
	ErrQuotaExceeded = errors.New("youtube: quota exceeded")
	// ErrUnauthorized indicates the access token was missing, expired or revoked.
	ErrUnauthorized = errors.New("youtube: unauthorized")
	// ErrForbidden indicates the credentials lack the required scope.
	ErrForbidden = errors.New("youtube: access denied")
	// ErrRateLimited indicates a short-term rate limit was hit.
	ErrRateLimited = errors.New("youtube: rate limit exceeded")
	// ErrUnavailable indicates a transient server-side failure.
	ErrUnavailable = errors.New("youtube: service unavailable")
)

// APIError wraps a failed API call with the operation that made it.
type APIError struct {
	Op     string
	Status int
	Reason string
	Err    error
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s failed (status %d, %s): %v", e.Op, e.Status, e.Reason, e.Err)
	}
	return fmt.Sprintf("youtube %s failed (status %d): %v", e.Op, e.Status, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classify maps a googleapi error to one of the package sentinels using the
// structured status code and error reasons.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("youtube %s failed: %w", op, err)
	}

	reason := ""
	if len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Reason
	}

	apiErr := &APIError{Op: op, Status: gerr.Code, Reason: reason, Err: gerr}

	switch {
	case hasReason(gerr, "quotaExceeded", "dailyLimitExceeded"):
		apiErr.Err = ErrQuotaExceeded
	case gerr.Code == http.StatusUnauthorized:
		apiErr.Err = ErrUnauthorized
	case hasReason(gerr, "rateLimitExceeded", "userRateLimitExceeded") || gerr.Code == http.StatusTooManyRequests:
		apiErr.Err = ErrRateLimited
	case gerr.Code == http.StatusForbidden:
		apiErr.Err = ErrForbidden
	case gerr.Code >= http.StatusInternalServerError:
		apiErr.Err = ErrUnavailable
	}

	return apiErr
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}
