package core

import "strings"

// Route identifies the sub-flow that answers a request. The set is closed:
// a value outside it must never reach the orchestrator, so every producer
// coerces unknown values to RouteHello.
type Route string

const (
	// RoutePlayerStats answers via the player search -> stats -> compose flow.
	RoutePlayerStats Route = "PLAYER_STATS"
	// RouteDocumentQA answers via the grounded document knowledge base.
	RouteDocumentQA Route = "DOCUMENT_QA"
	// RouteHello is the fail-safe capability message.
	RouteHello Route = "HELLO"
	// RouteMultiDomain delegates to the tool-using planner agent.
	RouteMultiDomain Route = "MULTI_DOMAIN"
)

// Valid reports whether r is a member of the closed route set.
func (r Route) Valid() bool {
	switch r {
	case RoutePlayerStats, RouteDocumentQA, RouteHello, RouteMultiDomain:
		return true
	}
	return false
}

// ParseRoute coerces an arbitrary string to a member of the closed set.
// Unrecognized or malformed values fall back to RouteHello.
func ParseRoute(s string) Route {
	r := Route(strings.ToUpper(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return RouteHello
}
