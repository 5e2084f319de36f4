// Package client talks to the course-notes REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     notes, votes, uploads, leaderboards and authentication.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer token from a TokenSource, tags every request with an
//     X-Request-ID, rate-limits outbound calls and streams multipart bodies.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError. Callers match them with
// errors.Is against ErrUnauthorized (401), ErrForbidden (403), ErrNotFound
// (404) and ErrUnavailable (502/503/504). Transport failures and timeouts
// also match ErrUnavailable; undecodable bodies match ErrMalformedResponse.
//
// A 401 on a request that carried a token invokes the unauthorized hook, so
// that a stale token is dropped everywhere at once. Me is exempt: the session
// check owns that decision.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
