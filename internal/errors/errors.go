// Package errors defines the domain error taxonomy shared by the
// transfer engine, the gateway clients and the HTTP handlers.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a DomainError. Handlers map kinds to HTTP statuses.
type Kind string

const (
	KindValidation             Kind = "VALIDATION_ERROR"
	KindNotFound               Kind = "NOT_FOUND"
	KindInsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	KindLimitExceeded          Kind = "LIMIT_EXCEEDED"
	KindUpstreamUnavailable    Kind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamRejected       Kind = "UPSTREAM_REJECTED"
	KindReconciliationRequired Kind = "RECONCILIATION_REQUIRED"
	KindInternal               Kind = "INTERNAL"
)

type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Code when the target carries one.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Retryable reports whether the caller may safely repeat the request.
// Reconciliation-required errors are never retryable.
func (e *DomainError) Retryable() bool {
	return e.Kind == KindUpstreamUnavailable
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	c := *e
	c.Message = msg
	return &c
}

// Wrap returns a copy of e with cause attached.
func (e *DomainError) Wrap(cause error) *DomainError {
	c := *e
	c.Err = cause
	return &c
}

func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *DomainError {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *DomainError {
	return New(KindNotFound, code, message)
}

func Unavailable(message string, cause error) *DomainError {
	return &DomainError{Kind: KindUpstreamUnavailable, Code: "UPSTREAM_UNAVAILABLE", Message: message, Err: cause}
}

func Rejected(message string, cause error) *DomainError {
	return &DomainError{Kind: KindUpstreamRejected, Code: "UPSTREAM_REJECTED", Message: message, Err: cause}
}

func Internal(message string, cause error) *DomainError {
	return &DomainError{Kind: KindInternal, Code: "INTERNAL", Message: message, Err: cause}
}

// KindOf returns the kind of the first DomainError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// As is a shortcut for extracting the DomainError from err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	ok := stderrors.As(err, &de)
	return de, ok
}
