// Package router implements the orchestration state machine tying the
// pipeline stages together:
//
//	START -> CLASSIFY -> {PLAYER_SEARCH -> PLAYER_STATS -> PLAYER_ANSWER |
//	                      DOCUMENT_ANSWER | PLANNER | HELLO} -> END
//
// CLASSIFY always runs first and is the sole source of the route decision
// for a request. The route is re-validated at transition time so the graph
// always reaches a terminal state, and every terminal state appends exactly
// one assistant message to the conversation.
package router

import (
	"context"
	"fmt"

	"github.com/dugoutai/dugout/classify"
	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/player"
)

// HelloMessage is the fail-safe capability message. It documents both
// supported capabilities so the user can self-correct their query.
const HelloMessage = "I'm an MLB assistant agent with two main capabilities:\n\n" +
	"1. **Player Statistics**: I can help you find statistics, performance data, " +
	"and biographical information about specific MLB players. " +
	"For example: 'Tell me about Aaron Judge' or 'What are Shohei Ohtani's stats?'\n\n" +
	"2. **Document Q&A**: I can answer questions by consulting a knowledge base of " +
	"documents including policies, rules, guides, and explanations. " +
	"For example: 'What is the policy on team travel?' or 'Explain how the draft works.'\n\n" +
	"I'm sorry, but I wasn't able to process your query. Please try rephrasing your question " +
	"or ask about a specific player or topic from my knowledge base."

// Classifier produces the route decision and extracted entities.
type Classifier interface {
	Classify(ctx context.Context, query string) classify.Decision
}

// Resolver maps a candidate name to a player identifier.
type Resolver interface {
	Resolve(ctx context.Context, name string) (int, bool)
}

// Fetcher retrieves season statistics, degrading to an empty record.
type Fetcher interface {
	Fetch(ctx context.Context, playerID int) core.PlayerStats
}

// Composer builds the player-path answer from stats plus the question.
type Composer interface {
	Compose(ctx context.Context, query string, stats core.PlayerStats) (string, error)
}

// DocumentAnswerer produces a grounded answer for the document path.
type DocumentAnswerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Planner handles the multi-domain route with model-directed tool use.
type Planner interface {
	Run(ctx context.Context, state *core.State) (string, error)
}

// Options configure an Engine.
type Options struct {
	// Planner enables the MULTI_DOMAIN route. When nil that route falls
	// back to the HELLO terminal.
	Planner Planner
	Logger  logging.Logger
}

// Engine is the request orchestrator. It holds only injected collaborators
// and is safe for concurrent use; each request runs its own pipeline over
// its own State.
type Engine struct {
	classifier Classifier
	resolver   Resolver
	fetcher    Fetcher
	composer   Composer
	documents  DocumentAnswerer
	planner    Planner
	logger     logging.Logger
}

// New constructs an Engine from its collaborators.
func New(
	classifier Classifier,
	resolver Resolver,
	fetcher Fetcher,
	composer Composer,
	documents DocumentAnswerer,
	optFns ...func(o *Options),
) *Engine {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		classifier: classifier,
		resolver:   resolver,
		fetcher:    fetcher,
		composer:   composer,
		documents:  documents,
		planner:    opts.Planner,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

// Handle processes one request: classifies the latest user message,
// dispatches to the selected sub-flow and appends exactly one assistant
// message to state. Errors from the grounded path (other than rate-limit
// exhaustion, which surfaces as a busy message) and from answer composition
// propagate to the caller; in that case no message is appended.
func (e *Engine) Handle(ctx context.Context, state *core.State) error {
	query := state.LastUserText()
	logging.StageStart(e.logger, "route", "query", query)

	decision := e.classifier.Classify(ctx, query)
	state.ExtractedName = decision.Name
	state.ExtractedTeam = decision.Team

	// Transition guard: the decision is validated again here so an invalid
	// value can never leave the graph without a terminal state.
	route := decision.Route
	if !route.Valid() {
		e.logger.Warn("invalid route at transition, falling back to HELLO", "route", string(route))
		route = core.RouteHello
	}
	state.Route = route

	var (
		answer string
		err    error
	)
	switch route {
	case core.RoutePlayerStats:
		answer, err = e.runPlayerFlow(ctx, state, query)
	case core.RouteDocumentQA:
		answer, err = e.documents.Answer(ctx, query)
	case core.RouteMultiDomain:
		if e.planner == nil {
			e.logger.Warn("multi-domain route without planner, falling back to HELLO")
			answer = HelloMessage
		} else {
			answer, err = e.planner.Run(ctx, state)
		}
	default:
		answer = HelloMessage
	}
	if err != nil {
		return fmt.Errorf("route %s: %w", route, err)
	}

	state.Append(core.AssistantMessage(answer))
	logging.StageEnd(e.logger, "route", "route", route, "response_chars", len(answer))
	return nil
}

// runPlayerFlow executes the strictly sequential player path. Stats are
// always fetched even after a search miss; the fetch itself degrades to an
// empty record on a zero identifier.
func (e *Engine) runPlayerFlow(ctx context.Context, state *core.State, query string) (string, error) {
	name := player.CandidateName(query, state.ExtractedName)
	logging.StageStart(e.logger, "player_search", "query", query, "name", name)

	id, ok := e.resolver.Resolve(ctx, name)
	state.PlayerID = id
	logging.StageEnd(e.logger, "player_search", "player_id", id, "found", ok)

	logging.StageStart(e.logger, "player_stats", "player_id", id)
	stats := e.fetcher.Fetch(ctx, id)
	state.Stats = stats
	logging.StageEnd(e.logger, "player_stats", "has_stats", stats.HasHitting())

	return e.composer.Compose(ctx, query, stats)
}
