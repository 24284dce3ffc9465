package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeTimeout            Code = "TIMEOUT"
	CodeNetwork            Code = "NETWORK_ERROR"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeServer             Code = "SERVER_ERROR"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeConflict           Code = "CONFLICT"
	CodeIncompleteShipping Code = "INCOMPLETE_SHIPPING"
	CodeInvalidCredential  Code = "INVALID_CREDENTIAL"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNoSession          Code = "NO_SESSION"
)

type Metadata struct {
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeTimeout: {
		Retryable:     true,
		PublicMessage: "request timed out",
	},
	CodeNetwork: {
		Retryable:     true,
		PublicMessage: "network error",
	},
	CodeValidation: {
		Retryable:     false,
		PublicMessage: "validation failed",
	},
	CodeServer: {
		Retryable:     true,
		PublicMessage: "server error",
	},
	CodeUnauthenticated: {
		Retryable:     false,
		PublicMessage: "authentication required",
	},
	CodeConflict: {
		Retryable:     false,
		PublicMessage: "conflicting operation in progress",
	},
	CodeIncompleteShipping: {
		Retryable:     false,
		PublicMessage: "shipping details incomplete",
	},
	CodeInvalidCredential: {
		Retryable:     false,
		PublicMessage: "invalid credentials",
	},
	CodeInvalidArgument: {
		Retryable:     false,
		PublicMessage: "invalid argument",
	},
	CodeNoSession: {
		Retryable:     false,
		PublicMessage: "no active session",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeServer]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Validation builds a field-level validation error aggregating {field: message} pairs.
func Validation(message string, fields map[string]string) *Error {
	return New(CodeValidation, message).WithDetails(fields)
}

// Server builds an error carrying the upstream HTTP status and message.
func Server(status int, message string) *Error {
	return New(CodeServer, message).WithDetails(map[string]any{"status": status})
}

// IncompleteShipping names every required shipping field still missing.
func IncompleteShipping(missing []string) *Error {
	return New(CodeIncompleteShipping, "shipping details incomplete").WithDetails(missing)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeServer
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
