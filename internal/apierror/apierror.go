// Package apierror defines the error taxonomy of the core and the response
// envelope returned to clients. Every service operation either succeeds or
// fails with exactly one Kind; handlers map kinds to HTTP status codes and
// never leak internal details (stack traces, SQL errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a core failure.
type Kind int

const (
	// KindValidation — malformed input: empty required field, non-positive
	// price, invalid discount range. Caller re-prompts.
	KindValidation Kind = iota
	// KindNotFound — referenced id does not exist.
	KindNotFound
	// KindDuplicateCode — product code collision (case-insensitive).
	KindDuplicateCode
	// KindCaixaJaAberto — tried to open a caixa while one is open.
	KindCaixaJaAberto
	// KindSemCaixaAberto — sale/staging operation without an open caixa.
	KindSemCaixaAberto
	// KindCaixaNaoFechado — tried to delete a caixa that is still open.
	KindCaixaNaoFechado
	// KindPagamentoInsuficiente — cash tendered below the sale total.
	KindPagamentoInsuficiente
	// KindPagamentoDivergente — combined split does not equal the total.
	KindPagamentoDivergente
	// KindCarrinhoVazio — checkout attempted with zero cart lines.
	KindCarrinhoVazio
	// KindStorage — persistence failure. Surfaced as-is, never retried here;
	// retry policy belongs to the caller.
	KindStorage
)

// Error carries a Kind, a client-safe message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error of the given kind.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// Storage wraps an arbitrary persistence error.
func Storage(cause error) *Error {
	return &Error{Kind: KindStorage, Message: "erro de armazenamento", cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateCode, KindCaixaJaAberto, KindCaixaNaoFechado, KindSemCaixaAberto:
		return http.StatusConflict
	case KindStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// ── Response envelopes ───────────────────────────────────────────────────────

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func NewAPIError(msg string) *APIError { return &APIError{Detail: msg} }

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
