// Package model defines the provider-agnostic abstractions for interacting
// with language models inside dugout.
//
// Core goals:
//   - Normalize tool / function call representation (ToolDefinition, core.ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (classifier, composer, planner) remain decoupled
// from vendor SDKs. The pipeline is sequential and blocking, so Generate is
// synchronous; streaming is out of scope for this module.
package model
