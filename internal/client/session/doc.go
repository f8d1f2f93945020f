// Package session owns the client's auth token.
//
// TokenCache keeps the current token in an in-process slot and, when the
// caller asks for it, mirrors it into durable storage under the "token" key.
// The slot wins over storage. Storage is read at most once per process
// (lazy hydration); after that only Save and Remove touch it.
//
// A token saved without persistence never reaches storage, so one client can
// hold a short-lived token (for example a link-share session) without
// replacing the token another client instance shares through storage.
//
// TokenCache is the only writer of the slot and of the "token" key.
package session
