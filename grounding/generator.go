// Package grounding generates document-grounded answers via the Gemini API
// with a Vertex RAG retrieval tool attached, retrying transient capacity
// errors with exponential backoff and post-processing grounding metadata
// into inline citation tags plus a bibliography.
package grounding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/retry"
	"google.golang.org/genai"
)

const (
	// FallbackText is returned when the provider produced no usable content.
	FallbackText = "I could not find any information on that topic."
	// BusyText is returned after the rate-limit retry budget is exhausted.
	BusyText = "The service is currently busy. Please try again in a few moments."

	defaultModel       = "gemini-2.5-flash"
	defaultMaxAttempts = 3
	defaultBaseDelay   = 5 * time.Second
)

// ContentGenerator is the slice of the genai client the generator depends
// on; *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configure a Generator.
type Options struct {
	// Model is the Gemini model id.
	Model string
	// RAGCorpus is the Vertex RAG corpus resource name. When empty no
	// retrieval tool is attached and answers come back ungrounded.
	RAGCorpus string
	// MaxAttempts bounds the rate-limit retry loop (total attempts).
	MaxAttempts int
	// BaseDelay is the first backoff wait; subsequent waits double.
	BaseDelay time.Duration
	// Sleep overrides the backoff wait primitive (tests).
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger logging.Logger
}

// Generator produces grounded answers. It is stateless between calls and
// safe for concurrent use.
type Generator struct {
	gen    ContentGenerator
	opts   Options
	tools  []*genai.Tool
	logger logging.Logger
}

// NewGenerator constructs a Generator over the given content generator.
func NewGenerator(gen ContentGenerator, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:       defaultModel,
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var tools []*genai.Tool
	if opts.RAGCorpus != "" {
		tools = []*genai.Tool{{
			Retrieval: &genai.Retrieval{
				VertexRAGStore: &genai.VertexRAGStore{
					RAGResources: []*genai.VertexRAGStoreRAGResource{{RAGCorpus: opts.RAGCorpus}},
				},
			},
		}}
	}
	return &Generator{gen: gen, opts: opts, tools: tools, logger: logging.OrNoOp(opts.Logger)}
}

// Answer sends the verbatim query to the grounded-generation provider and
// returns the formatted answer text.
//
// Error semantics are deliberately asymmetric: resource-exhausted errors are
// retried with exponential backoff and, once the budget is spent, surface to
// the user as BusyText with a nil error; every other error class is not
// retried and is returned to the caller of the pipeline.
func (g *Generator) Answer(ctx context.Context, query string) (string, error) {
	logging.StageStart(g.logger, "grounded_answer", "query", query)

	policy := retry.Policy{
		MaxAttempts: g.opts.MaxAttempts,
		BaseDelay:   g.opts.BaseDelay,
		Retryable:   IsResourceExhausted,
		Sleep:       g.opts.Sleep,
	}
	resp, err := retry.Do(ctx, policy, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.gen.GenerateContent(ctx, g.opts.Model, genai.Text(query), &genai.GenerateContentConfig{Tools: g.tools})
	})
	if err != nil {
		if IsResourceExhausted(err) {
			g.logger.Warn("grounded generation rate-limited after retries", "error", err.Error())
			logging.StageEnd(g.logger, "grounded_answer", "busy", true)
			return BusyText, nil
		}
		return "", fmt.Errorf("grounded generation: %w", err)
	}

	text := g.format(resp)
	logging.StageEnd(g.logger, "grounded_answer", "response_chars", len(text))
	return text, nil
}

// format renders a provider response. A response without grounding
// metadata, candidates, or content parts is a terminal success: its raw
// text (or FallbackText) is returned as-is.
func (g *Generator) format(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return textOr(resp, FallbackText)
	}
	cand := resp.Candidates[0]
	md := cand.GroundingMetadata
	if md == nil || len(md.GroundingSupports) == 0 {
		return textOr(resp, FallbackText)
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return textOr(resp, FallbackText)
	}

	answer := Annotate(cand.Content.Parts[0].Text, md.GroundingSupports, md.GroundingChunks)
	if len(answer.Sources) == 0 {
		return answer.Text
	}

	var b strings.Builder
	b.WriteString(answer.Text)
	b.WriteString("\n\n**Sources:**\n")
	for _, src := range answer.Sources {
		b.WriteString(src.String())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func textOr(resp *genai.GenerateContentResponse, fallback string) string {
	if t := resp.Text(); t != "" {
		return t
	}
	return fallback
}

// IsResourceExhausted reports whether err is a rate-limit class error from
// the provider. Only this class is retried.
func IsResourceExhausted(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
