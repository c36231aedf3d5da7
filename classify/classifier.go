// Package classify implements the single-call entity/intent classifier: one
// model inference both extracts a candidate player name/team and picks the
// route. The classifier never fails; every malformed or unreachable outcome
// coerces to the HELLO fail-safe so the orchestrator always has a member of
// the closed route set to dispatch on.
package classify

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/model"
)

const systemPrompt = `You are an expert routing agent for an MLB assistant. Your task is to analyze the user's query and return a JSON object that specifies the routing decision and any extracted entities.

You must respond ONLY with a single, minified JSON object and nothing else. Do not include any text, explanations, or markdown formatting before or after the JSON object.

The JSON object must have this exact format:
{"route": "PLAYER_STATS" | "DOCUMENT_QA", "entities": {"name": "..." | null, "team": "..." | null}}

Route Options:
- "PLAYER_STATS": The user is asking for statistics, performance, or biographical information about a specific baseball player.
- "DOCUMENT_QA": The user is asking for a definition, explanation, or information that would be found in a knowledge base (e.g., policies, rules, "how-to" guides).

Examples:
- User Query: "Tell me about Aaron Judge of the Yankees"
-> {"route": "PLAYER_STATS", "entities": {"name": "Aaron Judge", "team": "Yankees"}}
- User Query: "What is the policy on team travel?"
-> {"route": "DOCUMENT_QA", "entities": {"name": null, "team": null}}
- User Query: "tell me what the Injured List is"
-> {"route": "DOCUMENT_QA", "entities": {"name": null, "team": null}}
- User Query: "Hello there"
-> {"route": "DOCUMENT_QA", "entities": {"name": null, "team": null}}`

const multiDomainAddendum = `

Additional Route Option:
- "MULTI_DOMAIN": The query needs BOTH player statistics AND knowledge-base information to answer (e.g. "How do Aaron Judge's stats compare to the MVP voting rules?").`

// lenient extraction of the first JSON object from a completion that may be
// wrapped in markdown fences or prose
var jsonRe = regexp.MustCompile(`(?s)\{.*\}`)

// Decision is the classifier output: a member of the closed route set plus
// optionally extracted entities, consumed only by the player sub-flow.
type Decision struct {
	Route core.Route
	Name  string
	Team  string
}

// Options configure a Classifier.
type Options struct {
	// EnableMultiDomain adds the MULTI_DOMAIN route to the closed set the
	// classifier may select.
	EnableMultiDomain bool
	Logger            logging.Logger
}

// Classifier routes a query with a single model inference call.
type Classifier struct {
	model       model.Model
	multiDomain bool
	logger      logging.Logger
}

// NewClassifier constructs a Classifier over the given model.
func NewClassifier(m model.Model, optFns ...func(o *Options)) *Classifier {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Classifier{model: m, multiDomain: opts.EnableMultiDomain, logger: logging.OrNoOp(opts.Logger)}
}

type rawDecision struct {
	Route    string `json:"route"`
	Entities struct {
		Name *string `json:"name"`
		Team *string `json:"team"`
	} `json:"entities"`
}

// Classify returns the route decision and extracted entities for a query.
// On model transport failure, unparseable output, a missing route key, or a
// route outside the closed set, the decision is HELLO with no entities.
func (c *Classifier) Classify(ctx context.Context, query string) Decision {
	logging.StageStart(c.logger, "classify", "query", query)

	prompt := systemPrompt
	if c.multiDomain {
		prompt += multiDomainAddendum
	}
	resp, err := c.model.Generate(ctx, model.Request{
		Instructions: prompt,
		Messages:     []core.Message{core.UserMessage("User Query: " + query)},
	})
	if err != nil {
		c.logger.Warn("classification call failed, defaulting to HELLO", "error", err.Error())
		logging.StageEnd(c.logger, "classify", "route", core.RouteHello)
		return Decision{Route: core.RouteHello}
	}

	d := c.parse(resp.Text)
	logging.StageEnd(c.logger, "classify", "route", d.Route, "name", d.Name, "team", d.Team)
	return d
}

// parse defensively decodes the model completion. The inference call is
// instructed to emit a single JSON object, but the output is still treated
// as untrusted.
func (c *Classifier) parse(text string) Decision {
	payload := jsonRe.FindString(text)
	if payload == "" {
		c.logger.Warn("classifier returned no JSON object, defaulting to HELLO", "text", text)
		return Decision{Route: core.RouteHello}
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		c.logger.Warn("classifier returned invalid JSON, defaulting to HELLO", "error", err.Error())
		return Decision{Route: core.RouteHello}
	}

	route := core.Route(strings.ToUpper(strings.TrimSpace(raw.Route)))
	if !c.allowed(route) {
		c.logger.Warn("classifier returned route outside the closed set, defaulting to HELLO", "route", raw.Route)
		return Decision{Route: core.RouteHello}
	}

	d := Decision{Route: route}
	if raw.Entities.Name != nil {
		d.Name = *raw.Entities.Name
	}
	if raw.Entities.Team != nil {
		d.Team = *raw.Entities.Team
	}
	return d
}

func (c *Classifier) allowed(r core.Route) bool {
	switch r {
	case core.RoutePlayerStats, core.RouteDocumentQA:
		return true
	case core.RouteMultiDomain:
		return c.multiDomain
	}
	return false
}
