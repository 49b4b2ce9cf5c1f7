// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "net/http"

// Action handles one registered HTTP route.
type Action interface {
	// HandleRequest produces the response for r. A returned error is mapped
	// to a structured failure; see [HTTPError].
	HandleRequest(r *http.Request) (*Output, error)

	// Description documents the route in the generated API document.
	Description() Description
}

// Output is the result of an [Action].
//
// Body is written as JSON unless it is a []byte, which is written as is with
// ContentType. A zero Status means 200 OK, or 204 No Content when Body is nil.
type Output struct {
	Status      int
	Body        any
	ContentType string
	Headers     map[string]string
}

// Description documents a route.
//
// Input and Output are sample values of the request and response body types;
// their JSON Schemas are reflected into the API document. Either may be nil.
type Description struct {
	Summary     string
	Description string
	Tags        []string
	Input       any
	Output      any
}

// ActionFunc adapts a function to [Action].
type ActionFunc struct {
	Handle func(r *http.Request) (*Output, error)
	Doc    Description
}

func (f ActionFunc) HandleRequest(r *http.Request) (*Output, error) {
	return f.Handle(r)
}

func (f ActionFunc) Description() Description {
	return f.Doc
}

// OK returns a 200 output with a JSON body.
func OK(body any) *Output {
	return &Output{Status: http.StatusOK, Body: body}
}
