// Package http implements the request pipeline shared by every HTTP
// listener of a service.
//
// Every request passes through the fixed chain
//
//	trace id -> liveness -> metrics -> access log -> recoverer ->
//	API docs -> authorization -> custom middlewares -> dispatch
//
// Liveness, /metrics and the API document short-circuit; everything else
// is dispatched by a chi router to the registered [models.Action].
package http
