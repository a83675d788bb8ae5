// Package core provides the foundational domain types and contracts used by
// TeamChat. It defines the core abstractions for:
//
//   - ChatSessions (single or bundle conversational containers with a roster)
//   - Participants (named assistants backed by an external AI configuration)
//   - Turns (append-only conversation records)
//   - RunHandles (ephemeral state of one in-flight assistant call)
//   - Pluggable stores for conversation persistence and per-user rate limiting
//
// The package intentionally keeps implementation concerns (persistence,
// provider SDKs, orchestration) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
