// Package models holds the types shared between a service and the SDK:
// request actions and their outputs, HTTP failures, route authorization
// and bearer token claims.
package models
