package domain

import "errors"

// ResultKind classifies a failed Result.
type ResultKind string

const (
	KindNone     ResultKind = ""
	KindConfig   ResultKind = "config"
	KindUpstream ResultKind = "upstream"
	KindParse    ResultKind = "parse"
	KindInvalid  ResultKind = "invalid"
)

// Result is the success/failure envelope returned across component
// boundaries. Callers must check IsSuccess before using Data.
type Result[T any] struct {
	IsSuccess bool       `json:"is_success"`
	Message   string     `json:"message"`
	Kind      ResultKind `json:"kind,omitempty"`
	Data      T          `json:"data,omitempty"`
	// Error is the underlying error text, kept for debugging.
	Error string `json:"error,omitempty"`
	// Raw is the unparsed model output when decoding failed.
	Raw string `json:"raw,omitempty"`
}

// Succeed builds a successful result.
func Succeed[T any](message string, data T) Result[T] {
	return Result[T]{IsSuccess: true, Message: message, Data: data}
}

// Fail builds a failed result, classifying err against the sentinel errors.
func Fail[T any](message string, err error) Result[T] {
	r := Result[T]{Message: message, Kind: KindOf(err)}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// WithRaw attaches the raw model text to a result.
func (r Result[T]) WithRaw(raw string) Result[T] {
	r.Raw = raw
	return r
}

// KindOf maps an error to its ResultKind.
func KindOf(err error) ResultKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingAPIKey):
		return KindConfig
	case errors.Is(err, ErrNoCoordinates), errors.Is(err, ErrNoFields):
		return KindParse
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalid
	default:
		return KindUpstream
	}
}
