package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteValid(t *testing.T) {
	assert.True(t, RoutePlayerStats.Valid())
	assert.True(t, RouteDocumentQA.Valid())
	assert.True(t, RouteHello.Valid())
	assert.True(t, RouteMultiDomain.Valid())
	assert.False(t, Route("PLAYER").Valid())
	assert.False(t, Route("").Valid())
}

func TestParseRouteCoercesUnknownToHello(t *testing.T) {
	cases := map[string]Route{
		"PLAYER_STATS":   RoutePlayerStats,
		"document_qa":    RouteDocumentQA,
		" Hello ":        RouteHello,
		"MULTI_DOMAIN":   RouteMultiDomain,
		"WEATHER":        RouteHello,
		"":               RouteHello,
		"PLAYER_STATS; ": RouteHello,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseRoute(in), "input %q", in)
	}
}

func TestStateLastUserText(t *testing.T) {
	s := NewState(
		SystemMessage("sys"),
		UserMessage("first"),
		AssistantMessage("reply"),
		UserMessage("second"),
	)
	assert.Equal(t, "second", s.LastUserText())

	empty := NewState()
	assert.Equal(t, "", empty.LastUserText())

	onlyAssistant := NewState(AssistantMessage("hi"))
	assert.Equal(t, "hi", onlyAssistant.LastUserText())
}

func TestSessionHistoryIsDefensiveCopy(t *testing.T) {
	sess := NewSession("s1")
	sess.Append(UserMessage("hello"))

	h := sess.History()
	h[0].Content = "mutated"

	assert.Equal(t, "hello", sess.History()[0].Content)
}

func TestSessionClone(t *testing.T) {
	sess := NewSession("s1")
	sess.Append(UserMessage("hello"))

	clone := sess.Clone()
	clone.Append(AssistantMessage("hi"))

	assert.Len(t, sess.History(), 1)
	assert.Len(t, clone.History(), 2)
}
