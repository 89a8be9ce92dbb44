package model

import "errors"

// Remote API error classes. The YouTube layer maps raw transport errors onto
// these so callers can branch without inspecting HTTP details.
var (
	// ErrQuotaExceeded means the daily API quota is spent. Terminal for the
	// current channel's cycle; do not retry within this run.
	ErrQuotaExceeded = errors.New("youtube api quota exceeded")

	// ErrRateLimited means too many requests in a short window. Transient;
	// wait out a cooldown and retry the same request once.
	ErrRateLimited = errors.New("youtube api rate limited")

	// ErrUnauthorized means the access token was rejected.
	ErrUnauthorized = errors.New("youtube api unauthorized")

	// ErrVideoNotFound means the video is deleted or private.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentsDisabled means the video owner turned comments off.
	// Expected, not an error condition for the run.
	ErrCommentsDisabled = errors.New("comments disabled for video")

	// ErrReauthorizationRequired means the refresh token is missing or
	// revoked and only an interactive flow can restore access.
	ErrReauthorizationRequired = errors.New("reauthorization required")
)
