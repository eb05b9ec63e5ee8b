package mongofake

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error represents a structured error with snake_case JSON format
type Error struct {
	ErrorCode        string `json:"error_code"`
	ErrorMessage     string `json:"error_message"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Error implements error interface
func (e *Error) Error() string {
	if e.ErrorDescription == "" {
		return e.ErrorMessage
	}
	return e.ErrorMessage + ": " + e.ErrorDescription
}

// MarshalJSON returns the JSON encoding with snake_case format
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	return json.Marshal((*Alias)(e))
}

// Is matches errors by code, so errors.Is(err, ErrInvalidArgument) holds for every
// invalid argument error whatever its description.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

// GRPCStatus lets status.Code and status.FromError read the code.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(grpcCodes[e.ErrorCode], e.Error())
}

var grpcCodes = map[string]codes.Code{
	codeInvalidArgument: codes.InvalidArgument,
	codeUnimplemented:   codes.Unimplemented,
}

const (
	codeInvalidArgument = "invalid_argument"
	codeUnimplemented   = "unimplemented"
)

// NewError creates a new structured error
func NewError(code, message string) *Error {
	return &Error{
		ErrorCode:    code,
		ErrorMessage: message,
	}
}

// Common errors, compare with errors.Is.
var (
	ErrInvalidArgument = NewError(codeInvalidArgument, "invalid argument")
	ErrUnimplemented   = NewError(codeUnimplemented, "unimplemented")
)

// NewInvalidArgumentError creates an invalid argument error
func NewInvalidArgumentError(argument, reason string) *Error {
	return &Error{
		ErrorCode:        codeInvalidArgument,
		ErrorMessage:     "invalid argument",
		ErrorDescription: fmt.Sprintf("argument '%s': %s", argument, reason),
	}
}

// NewUnimplementedError reports a filter or update operator the fake does not support.
func NewUnimplementedError(argument, operator string) *Error {
	return &Error{
		ErrorCode:        codeUnimplemented,
		ErrorMessage:     "unimplemented",
		ErrorDescription: fmt.Sprintf("argument '%s': operator '%s' is not supported", argument, operator),
	}
}
