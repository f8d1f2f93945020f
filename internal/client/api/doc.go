// Package api is the HTTP transport of the task-management client.
//
// Poster is the capability other client packages depend on: a single POST
// with per-request options such as extra headers. HTTPClient implements it
// over net/http against a configured base URL ("http://host/api/v1/").
//
// # Error Handling
//
// Transport failures and timeouts match ErrUnavailable. Non-2xx responses
// are returned as *StatusError, which also matches ErrUnauthorized for 401
// and 403. Use errors.Is / errors.As.
package api
