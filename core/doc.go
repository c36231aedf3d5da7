// Package core provides the foundational domain types used across dugout:
//
//   - Route (the closed set of sub-flow decisions)
//   - Message / Role (immutable conversation entries, including tool turns)
//   - PlayerRecord / PlayerStats (per-request upstream snapshots)
//   - State (request-scoped pipeline state passed between stages)
//   - Session / SessionStore (conversational containers and persistence)
//
// The package intentionally keeps implementation concerns (providers,
// orchestration, HTTP clients) out of scope, exposing small types and
// interfaces so higher layers remain decoupled.
package core
