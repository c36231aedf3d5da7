// Package planner drives the multi-domain route: a model-directed tool loop
// that lets the LLM interleave player lookups, statistics retrieval and
// knowledge base queries until it can produce a combined answer.
package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/model"
)

const systemPrompt = "You are an MLB assistant planner. Use tools to answer multi-domain " +
	"questions that may require both player statistics and policy/rules knowledge. " +
	"Be concise and accurate."

// DefaultMaxIterations bounds the tool loop. Every observed multi-domain
// query settles within three tool rounds; eight leaves generous headroom.
const DefaultMaxIterations = 8

// Options configure a Planner.
type Options struct {
	MaxIterations int
	Logger        logging.Logger
}

// Planner runs the tool loop over a tool-capable model.
type Planner struct {
	model         model.Model
	tools         map[string]Tool
	defs          []model.ToolDefinition
	maxIterations int
	logger        logging.Logger
}

// New constructs a Planner over the given model and tools.
func New(m model.Model, tools []Tool, optFns ...func(o *Options)) *Planner {
	opts := Options{MaxIterations: DefaultMaxIterations}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	byName := make(map[string]Tool, len(tools))
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	return &Planner{
		model:         m,
		tools:         byName,
		defs:          defs,
		maxIterations: opts.MaxIterations,
		logger:        logging.OrNoOp(opts.Logger),
	}
}

// Run executes the tool loop for the latest user message in state and
// returns the model's final text. Tool failures are fed back to the model
// as JSON error payloads so it can recover or rephrase; only model transport
// errors and loop exhaustion propagate as errors.
func (p *Planner) Run(ctx context.Context, state *core.State) (string, error) {
	query := state.LastUserText()
	logging.StageStart(p.logger, "planner", "query", query)

	messages := []core.Message{core.UserMessage(query)}

	for i := 0; i < p.maxIterations; i++ {
		resp, err := p.model.Generate(ctx, model.Request{
			Instructions: systemPrompt,
			Messages:     messages,
			Tools:        p.defs,
		})
		if err != nil {
			return "", fmt.Errorf("planner generate: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			logging.StageEnd(p.logger, "planner", "iterations", i+1, "response_chars", len(resp.Text))
			return resp.Text, nil
		}

		messages = append(messages, core.Message{
			Role:      core.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := p.execute(ctx, call)
			messages = append(messages, core.ToolMessage(call.ID, call.Name, result))
		}
	}

	return "", fmt.Errorf("planner: tool loop exceeded %d iterations", p.maxIterations)
}

// execute runs a single tool call and renders the outcome as the JSON body
// of the tool turn. Unknown tools, bad arguments and tool errors all come
// back as {"error": ...} payloads.
func (p *Planner) execute(ctx context.Context, call core.ToolCall) string {
	tool, ok := p.tools[call.Name]
	if !ok {
		p.logger.Warn("unknown tool requested", "tool", call.Name)
		return errorPayload(fmt.Sprintf("unknown tool: %s", call.Name))
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			p.logger.Warn("malformed tool arguments", "tool", call.Name, "error", err)
			return errorPayload(fmt.Sprintf("invalid arguments: %v", err))
		}
	}

	p.logger.Debug("tool call", "tool", call.Name, "call_id", call.ID)
	result, err := tool.Call(ctx, args)
	if err != nil {
		p.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		return errorPayload(err.Error())
	}

	body, err := json.Marshal(result)
	if err != nil {
		return errorPayload(fmt.Sprintf("unserializable tool result: %v", err))
	}
	return string(body)
}

func errorPayload(msg string) string {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return string(body)
}
