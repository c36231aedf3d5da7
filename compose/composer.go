// Package compose builds the final natural-language answer on the player
// path: when a hitting line is available it is injected into the prompt as
// labeled context, otherwise the model answers the raw question unaided.
package compose

import (
	"context"
	"fmt"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/model"
)

const statsPromptFormat = `You are an expert MLB analyst. Here is the player's season hitting data:
AVG: %s
HR: %d
OPS: %s
RBI: %d

Based on this data, answer the user's question.
Question: %s
Answer:`

// Options configure a Composer.
type Options struct {
	Logger logging.Logger
}

// Composer turns retrieved stats plus the original question into an answer.
type Composer struct {
	model  model.Model
	logger logging.Logger
}

// NewComposer constructs a Composer over the given model.
func NewComposer(m model.Model, optFns ...func(o *Options)) *Composer {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Composer{model: m, logger: logging.OrNoOp(opts.Logger)}
}

// Compose answers the query. With a hitting line present the model receives
// a context-injected prompt embedding AVG, HR, OPS and RBI; without one the
// raw question is sent as-is (degraded mode, no error). The model's raw
// text is returned without further post-processing.
func (c *Composer) Compose(ctx context.Context, query string, stats core.PlayerStats) (string, error) {
	logging.StageStart(c.logger, "compose_answer", "player_id", stats.PlayerID, "has_stats", stats.HasHitting())

	prompt := query
	if stats.HasHitting() {
		h := stats.Hitting
		prompt = fmt.Sprintf(statsPromptFormat, h.AVG, h.HomeRuns, h.OPS, h.RBI, query)
	}

	resp, err := c.model.Generate(ctx, model.Request{
		Messages: []core.Message{core.UserMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}

	logging.StageEnd(c.logger, "compose_answer", "response_chars", len(resp.Text))
	return resp.Text, nil
}
