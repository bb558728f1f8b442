// Package models defines domain entities for the TubeWise optimizer backend.
//
// The package contains two categories of types:
//
// 1. Persistent records:
//   - [Credential] : per-user API keys and OAuth app secrets, stored in SQLite
//
// 2. Process-resident and transfer types:
//   - [SessionEntry] : tokens + profile + channel bound to a user after OAuth completes
//   - [UserInfo], [Channel] : provider identity and video-platform data
//   - [CredentialStatus] : masked credential projection (no key material)
//   - [OptimizedTitle] : structured output parsed from generative API text
//
// SessionEntry is intentionally in-memory only; losing sessions on restart is
// an accepted property of the deployment, the credential record is the only
// durable state.
package models
