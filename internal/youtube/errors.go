package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"ytcommentsync/internal/model"
)

// classifyError maps a raw API error onto the model's error classes so the
// rest of the engine can branch with errors.Is. Errors that fit no known
// class come back wrapped but otherwise untouched.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("youtube api transport error: %w", err)
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", model.ErrUnauthorized, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", model.ErrRateLimited, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", model.ErrVideoNotFound, apiErr.Message)
	case http.StatusForbidden:
		switch {
		case hasReason(apiErr, "quotaExceeded", "dailyLimitExceeded"):
			return fmt.Errorf("%w: %s", model.ErrQuotaExceeded, apiErr.Message)
		case hasReason(apiErr, "rateLimitExceeded", "userRateLimitExceeded"):
			return fmt.Errorf("%w: %s", model.ErrRateLimited, apiErr.Message)
		case hasReason(apiErr, "commentsDisabled"):
			return fmt.Errorf("%w: %s", model.ErrCommentsDisabled, apiErr.Message)
		}
	}

	return fmt.Errorf("youtube api error (status %d): %w", apiErr.Code, err)
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	// Some error payloads carry the reason only in the message body.
	for _, reason := range reasons {
		if strings.Contains(apiErr.Message, reason) {
			return true
		}
	}
	return false
}
