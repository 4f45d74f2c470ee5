// Package ai provides the error taxonomy and retry/backoff helpers shared
// by every external backend adapter (STT, TTS, LLM, VAD, retriever). It is
// the one place the "transient backend" error kind is classified so every
// component backs off the same way.
package ai

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Common error sentinels used across AI provider adapters. A caller that
// needs to decide whether to retry checks errors.Is against these, never
// against a concrete backend error type.
var (
	// ErrRecoverable indicates a transient backend failure: network
	// timeout, rate limiting, temporary 5xx. Retry with backoff.
	ErrRecoverable = errors.New("recoverable backend error")

	// ErrFatal indicates a permanent backend failure: bad credentials,
	// unsupported format, content policy rejection. Do not retry.
	ErrFatal = errors.New("fatal backend error")
)

// RetryConfig configures exponential backoff with jitter for recoverable
// errors, honoring the operation's remaining time budget.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterPercent float64
}

// DefaultRetryConfig is the default budget for Retry. The adapters in
// pkg/providers do not call Retry; each returns a classified error after a
// single attempt.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:    3,
	InitialDelay:  100 * time.Millisecond,
	MaxDelay:      5 * time.Second,
	BackoffFactor: 2.0,
	JitterPercent: 0.1,
}

// IsRecoverable reports whether err (or something it wraps) is classified
// as a transient backend error.
func IsRecoverable(err error) bool { return errors.Is(err, ErrRecoverable) }

// IsFatal reports whether err (or something it wraps) is classified as a
// permanent backend error.
func IsFatal(err error) bool { return errors.Is(err, ErrFatal) }

// RetryableError carries a human message alongside its retry classification
// while still unwrapping to one of the two sentinels.
type RetryableError struct {
	Underlying error
	Retryable  bool
	Message    string
}

func (e *RetryableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Underlying != nil {
		return e.Underlying.Error()
	}
	return "backend error"
}

func (e *RetryableError) Unwrap() error {
	if e.Retryable {
		return ErrRecoverable
	}
	return ErrFatal
}

// NewRecoverableError wraps underlying as a transient backend error.
func NewRecoverableError(underlying error, message string) error {
	return &RetryableError{Underlying: underlying, Retryable: true, Message: message}
}

// NewFatalError wraps underlying as a permanent backend error.
func NewFatalError(underlying error, message string) error {
	return &RetryableError{Underlying: underlying, Retryable: false, Message: message}
}

// Retry runs op up to cfg.MaxRetries+1 times, backing off exponentially
// with jitter between attempts, stopping early on a fatal error, context
// cancellation, or success. The last error is returned on exhaustion.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRecoverable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}
		jitter := 1.0
		if cfg.JitterPercent > 0 {
			jitter = 1.0 + (rand.Float64()*2-1)*cfg.JitterPercent
		}
		wait := time.Duration(float64(delay) * jitter)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay = time.Duration(math.Min(float64(cfg.MaxDelay), float64(delay)*cfg.BackoffFactor))
	}
	return lastErr
}

// SessionFatalError marks a session as unrecoverable and names the session
// it applies to. No package in this module constructs it or converts it
// into a Shutdown frame.
type SessionFatalError struct {
	SessionID string
	Reason    string
	Cause     error
}

func (e *SessionFatalError) Error() string {
	if e.Cause != nil {
		return "session " + e.SessionID + " fatal: " + e.Reason + ": " + e.Cause.Error()
	}
	return "session " + e.SessionID + " fatal: " + e.Reason
}

func (e *SessionFatalError) Unwrap() error { return e.Cause }
