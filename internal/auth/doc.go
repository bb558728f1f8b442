// Package auth implements the OAuth2 authorization-code flow and its
// session-bound user context.
//
// # Components
//
// [ClientFactory] builds per-user [oauth2.Config] values from stored
// credentials, bound to the fixed /api/auth/callback redirect.
//
// [Flow] runs the authorization sequence. Its callback path walks the same
// steps every time, each awaiting one network round trip:
//
//	code present -> state verified -> client rebuilt -> code exchanged ->
//	profile fetched -> channel fetched -> session bound
//
// Any failing step fails the whole flow; the HTTP layer converts the error
// into a redirect carrying a human-readable message.
//
// # State tokens
//
// The `state` parameter is a signed, expiring, single-use JWT issued by
// [StateSigner] and mapped back to the user id at the callback. A bare user
// id in `state` is never trusted and there is no fallback identifier: a
// callback without a valid state token fails with [shared.ErrInvalidState].
//
// # Sessions
//
// [SessionStore] is an explicit dependency with get/set/delete by user id.
// The in-memory implementation is keyed per user, so concurrent flows for
// different users never race; two callbacks for the same user id are a
// last-write-wins race, which is acceptable because the bound value is
// self-contained.
package auth
