// Package repositories implements SQLite persistence for stored credentials.
//
// The store is intentionally small: one table, one row per user, full
// overwrite on save. [CredentialRepository] is the single collaborator the
// OAuth client factory and the upstream API clients read keys from.
//
// A missing record surfaces as [shared.ErrNotConfigured] so callers at the
// request boundary can match it without inspecting strings.
package repositories
