package domain

import (
	"errors"
	"fmt"
)

// ErrorEntry is one element of the batched error envelope.
type ErrorEntry struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail"`
}

// BadRequest builds the standard 400-class error entry.
func BadRequest(detail string) ErrorEntry {
	return ErrorEntry{Code: 400, Msg: "Bad Request", Detail: detail}
}

// Required is the error entry for an absent required field.
func Required(field string) ErrorEntry {
	return BadRequest(fmt.Sprintf("%s is required", field))
}

// Invalid is the error entry for a present-but-invalid field. The detail may
// echo the offending value.
func Invalid(field, value string) ErrorEntry {
	return BadRequest(fmt.Sprintf("%s has an invalid format: %s", field, value))
}

// RefNotFound is the batched error entry for a well-formed reference that
// resolves to no document.
func RefNotFound(field, id string) ErrorEntry {
	return BadRequest(fmt.Sprintf("%s not found: %s", field, id))
}

// Duplicate is the error entry for a uniqueness conflict.
func Duplicate(field, value string) ErrorEntry {
	return BadRequest(fmt.Sprintf("%s already in use: %s", field, value))
}

// MalformedIDError fails fast: a structurally invalid identifier is never
// batched with content errors and never reaches the store.
type MalformedIDError struct {
	Field string
	Value string
}

func (e MalformedIDError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed id: %s", e.Value)
	}
	return fmt.Sprintf("malformed %s id: %s", e.Field, e.Value)
}

// AuthError short-circuits before any business logic (401).
type AuthError struct {
	Detail string
}

func (e AuthError) Error() string { return e.Detail }

// InternalError wraps a store/network failure surfaced as a 500 envelope.
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsMalformedID(err error) bool {
	var target MalformedIDError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
