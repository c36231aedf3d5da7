package planner

import (
	"context"
	"fmt"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/grounding"
)

// Tool is a callable capability exposed to the planning model. Names are
// snake_case and surface in function call declarations.
type Tool interface {
	Name() string
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments. The result must
	// be JSON-serializable; it is marshaled into the tool turn verbatim.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// FuncTool adapts a plain function into a Tool. It holds no mutable state
// after construction and is safe for concurrent use.
type FuncTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFuncTool constructs a FuncTool from explicit schema and function.
func NewFuncTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FuncTool {
	return &FuncTool{name: name, description: description, parameters: parameters, fn: fn}
}

func (t *FuncTool) Name() string               { return t.name }
func (t *FuncTool) Description() string        { return t.description }
func (t *FuncTool) Parameters() map[string]any { return t.parameters }

func (t *FuncTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// Resolver maps a player name to an identifier.
type Resolver interface {
	Resolve(ctx context.Context, name string) (int, bool)
}

// Fetcher retrieves season statistics for a player identifier.
type Fetcher interface {
	Fetch(ctx context.Context, playerID int) core.PlayerStats
}

// DocumentAnswerer answers questions from the document knowledge base.
type DocumentAnswerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// NewPlayerSearchTool exposes player name resolution to the model.
func NewPlayerSearchTool(resolver Resolver) *FuncTool {
	return NewFuncTool(
		"search_for_player",
		"Search for an MLB player by full name and return their player ID.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Full player name, for example 'Aaron Judge'",
				},
			},
			"required": []string{"name"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("missing required argument: name")
			}
			id, found := resolver.Resolve(ctx, name)
			return map[string]any{"player_id": id, "found": found}, nil
		},
	)
}

// NewPlayerStatsTool exposes season statistics retrieval to the model.
func NewPlayerStatsTool(fetcher Fetcher) *FuncTool {
	return NewFuncTool(
		"get_player_statistics",
		"Get season hitting statistics (AVG, HR, OPS, RBI) for a player ID.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"player_id": map[string]any{
					"type":        "integer",
					"description": "Numeric MLB player identifier from search_for_player",
				},
			},
			"required": []string{"player_id"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			raw, ok := args["player_id"].(float64)
			if !ok {
				return nil, fmt.Errorf("missing required argument: player_id")
			}
			return fetcher.Fetch(ctx, int(raw)), nil
		},
	)
}

// NewDocumentQueryTool exposes the grounded knowledge base to the model.
// Rate-limit exhaustion inside the answerer surfaces as the busy text, so
// the model sees it as a regular tool result rather than a failure.
func NewDocumentQueryTool(documents DocumentAnswerer) *FuncTool {
	return NewFuncTool(
		"query_document_knowledge_base",
		"Answer a question from the document knowledge base of policies, rules and guides.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Natural language question to answer from the documents",
				},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, fmt.Errorf("missing required argument: query")
			}
			answer, err := documents.Answer(ctx, query)
			if err != nil {
				return nil, err
			}
			if answer == "" {
				answer = grounding.FallbackText
			}
			return map[string]any{"answer": answer}, nil
		},
	)
}
