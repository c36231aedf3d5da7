// Package dugout provides a high-level façade over the routing Engine and
// session storage. Most applications interact with this package by:
//  1. Building the pipeline collaborators (classifier, player lookup, answer
//     composer, grounded generator and optionally the multi-domain planner)
//  2. Wrapping them in a router.Engine
//  3. Creating an Assistant via New() and calling Ask() per user turn
//
// Defaults are safe for local development: sessions live in memory and
// logging is off until a structured logger is supplied.
package dugout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/router"
	"github.com/dugoutai/dugout/session"
)

// Options configures the Assistant instance.
type Options struct {
	// SessionStore persists conversation history across turns. Defaults to
	// an in-memory store.
	SessionStore core.SessionStore

	// Logger defaults to the NoOp logger if nil.
	Logger logging.Logger
}

// Result is the outcome of one conversational turn.
type Result struct {
	SessionID string     `json:"session_id"`
	Route     core.Route `json:"route"`
	Answer    string     `json:"answer"`
}

// Assistant is the high-level façade aggregating the routing engine and
// session storage.
type Assistant struct {
	engine   *router.Engine
	sessions core.SessionStore
	logger   logging.Logger
}

// New creates an Assistant over the given engine with optional overrides.
func New(engine *router.Engine, optFns ...func(o *Options)) *Assistant {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Assistant{
		engine:   engine,
		sessions: opts.SessionStore,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Ask processes one user turn in the given session. A blank sessionID starts
// a fresh session with a generated identifier. The full prior history is
// replayed into the request state so downstream stages see the conversation
// context, and both the user turn and the produced answer are persisted.
func (a *Assistant) Ask(ctx context.Context, sessionID, text string) (*Result, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	state := core.NewState(sess.History()...)
	state.Append(core.UserMessage(text))

	if err := a.engine.Handle(ctx, state); err != nil {
		return nil, err
	}
	answer := state.LastAssistantText()

	if err := a.sessions.AppendMessage(sessionID, core.UserMessage(text)); err != nil {
		return nil, fmt.Errorf("persist user turn: %w", err)
	}
	if err := a.sessions.AppendMessage(sessionID, core.AssistantMessage(answer)); err != nil {
		return nil, fmt.Errorf("persist assistant turn: %w", err)
	}

	a.logger.Info("turn completed", "session_id", sessionID, "route", state.Route)
	return &Result{SessionID: sessionID, Route: state.Route, Answer: answer}, nil
}

// History returns the persisted message history for a session.
func (a *Assistant) History(sessionID string) ([]core.Message, error) {
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.History(), nil
}
