// Package devserver is a small HTTP server for local development and
// integration tests. It issues HS256 JWTs and renews them at
// POST /api/v1/user/token, the endpoint the client's token cache calls.
//
// It does not manage users or sessions: any token signed with the configured
// secret and not expired can be exchanged for a fresh one with the same
// subject.
package devserver
