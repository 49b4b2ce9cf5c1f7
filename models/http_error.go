// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"net/http"
)

// Generic failures an action may return. They map to 400, 404 and 409.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// HTTPError is a request failure carrying the status code to respond with.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError returns an [HTTPError] with status and message.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// WrapHTTPError returns an [HTTPError] with status wrapping err.
func WrapHTTPError(status int, err error) *HTTPError {
	return &HTTPError{Status: status, Err: err}
}

func (e *HTTPError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return http.StatusText(e.Status)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every structured failure.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}
