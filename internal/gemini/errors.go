package gemini

import (
	"errors"
	"fmt"
	"strings"
)

// Terminal backend failures. Anything not classified below is retried
// as a transient overload and eventually surfaced as a generic wrapped
// error.
var (
	// ErrQuotaExceeded means every configured API key is out of quota.
	// Not retried; the user has to wait for the quota window to reset.
	ErrQuotaExceeded = errors.New("backend quota exceeded")

	// ErrContentBlocked means the backend refused the input on content
	// policy grounds. Not retried; the user has to change the input.
	ErrContentBlocked = errors.New("content blocked by backend policy")

	// ErrMalformedResponse means the backend answered but the payload
	// was not usable (empty candidates, undecodable JSON, no audio).
	ErrMalformedResponse = errors.New("malformed backend response")
)

type errClass int

const (
	classTransient errClass = iota
	classQuota
	classBlocked
	classOther
)

// classify buckets a raw backend error. Matching is string-based, the
// same way the upstream SDK surfaces these conditions today.
func classify(err error) errClass {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return classQuota
	case strings.Contains(msg, "SAFETY") ||
		strings.Contains(msg, "PROHIBITED_CONTENT") ||
		strings.Contains(lower, "blocked"):
		return classBlocked
	case strings.Contains(msg, "429") ||
		strings.Contains(msg, "503") ||
		strings.Contains(lower, "overloaded") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(lower, "deadline exceeded"):
		return classTransient
	default:
		return classOther
	}
}

// UserMessage renders a terminal error as a human-readable message,
// with remediation hints for quota failures.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return "The AI backend quota is exhausted for today. Wait for the daily quota to reset, or configure additional API keys in GEMINI_API_KEYS."
	case errors.Is(err, ErrContentBlocked):
		return "The AI backend declined to process this document due to its content policy. Edit or choose a different document."
	case errors.Is(err, ErrMalformedResponse):
		return fmt.Sprintf("The AI backend returned an unusable response: %v", err)
	default:
		return fmt.Sprintf("The AI backend request failed: %v", err)
	}
}
