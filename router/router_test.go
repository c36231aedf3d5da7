package router

import (
	"context"
	"errors"
	"testing"

	"github.com/dugoutai/dugout/classify"
	"github.com/dugoutai/dugout/compose"
	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	decision classify.Decision
}

func (f *fakeClassifier) Classify(context.Context, string) classify.Decision { return f.decision }

type fakeResolver struct {
	id     int
	ok     bool
	called bool
	name   string
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (int, bool) {
	f.called = true
	f.name = name
	return f.id, f.ok
}

type fakeFetcher struct {
	stats  core.PlayerStats
	called bool
	gotID  int
}

func (f *fakeFetcher) Fetch(_ context.Context, playerID int) core.PlayerStats {
	f.called = true
	f.gotID = playerID
	return f.stats
}

type fakeComposer struct {
	answer   string
	err      error
	gotStats core.PlayerStats
	gotQuery string
}

func (f *fakeComposer) Compose(_ context.Context, query string, stats core.PlayerStats) (string, error) {
	f.gotQuery = query
	f.gotStats = stats
	return f.answer, f.err
}

type fakeDocuments struct {
	answer string
	err    error
	called bool
}

func (f *fakeDocuments) Answer(_ context.Context, _ string) (string, error) {
	f.called = true
	return f.answer, f.err
}

type fakePlanner struct {
	answer string
	called bool
}

func (f *fakePlanner) Run(_ context.Context, _ *core.State) (string, error) {
	f.called = true
	return f.answer, nil
}

func newState(query string) *core.State {
	s := core.NewState()
	s.Append(core.UserMessage(query))
	return s
}

func TestHandlePlayerStatsFlow(t *testing.T) {
	hitting := core.HittingSeason{AVG: ".310", OPS: "1.020", HomeRuns: 58, RBI: 144}
	stats := core.PlayerStats{PlayerID: 592450, FullName: "Aaron Judge", Hitting: &hitting}

	classifier := &fakeClassifier{decision: classify.Decision{
		Route: core.RoutePlayerStats,
		Name:  "Aaron Judge",
	}}
	resolver := &fakeResolver{id: 592450, ok: true}
	fetcher := &fakeFetcher{stats: stats}
	composer := &fakeComposer{answer: "Judge hit 58 homers with a 1.020 OPS."}

	e := New(classifier, resolver, fetcher, composer, &fakeDocuments{})
	state := newState("Tell me about Aaron Judge")

	require.NoError(t, e.Handle(context.Background(), state))

	assert.Equal(t, core.RoutePlayerStats, state.Route)
	assert.Equal(t, "Aaron Judge", resolver.name)
	assert.Equal(t, 592450, state.PlayerID)
	assert.Equal(t, 592450, fetcher.gotID)
	assert.Equal(t, stats, state.Stats)
	assert.Equal(t, "Tell me about Aaron Judge", composer.gotQuery)
	assert.Equal(t, "Judge hit 58 homers with a 1.020 OPS.", state.LastAssistantText())
}

func TestHandlePlayerNotFoundStillFetches(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RoutePlayerStats}}
	resolver := &fakeResolver{id: 0, ok: false}
	fetcher := &fakeFetcher{stats: core.PlayerStats{}}
	composer := &fakeComposer{answer: "I don't have stats for that player."}

	e := New(classifier, resolver, fetcher, composer, &fakeDocuments{})
	state := newState("Tell me about Xyz Qwerty")

	require.NoError(t, e.Handle(context.Background(), state))

	assert.True(t, fetcher.called)
	assert.Equal(t, 0, fetcher.gotID)
	assert.False(t, composer.gotStats.HasHitting())
	assert.Equal(t, "I don't have stats for that player.", state.LastAssistantText())
}

func TestHandleDocumentRoute(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RouteDocumentQA}}
	docs := &fakeDocuments{answer: "Teams travel by charter flight. [1]"}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{}, docs)
	state := newState("What is the policy on team travel?")

	require.NoError(t, e.Handle(context.Background(), state))

	assert.True(t, docs.called)
	assert.Equal(t, "Teams travel by charter flight. [1]", state.LastAssistantText())
}

func TestHandleHelloRoute(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RouteHello}}
	resolver := &fakeResolver{}
	docs := &fakeDocuments{}

	e := New(classifier, resolver, &fakeFetcher{}, &fakeComposer{}, docs)
	state := newState("Hello")

	require.NoError(t, e.Handle(context.Background(), state))

	assert.Equal(t, HelloMessage, state.LastAssistantText())
	assert.False(t, resolver.called)
	assert.False(t, docs.called)
}

func TestHandleInvalidRouteFallsBackToHello(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.Route("BOGUS")}}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{}, &fakeDocuments{})
	state := newState("anything")

	require.NoError(t, e.Handle(context.Background(), state))
	assert.Equal(t, HelloMessage, state.LastAssistantText())
}

func TestHandleMultiDomainWithoutPlannerFallsBackToHello(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RouteMultiDomain}}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{}, &fakeDocuments{})
	state := newState("Compare Judge's stats to the travel policy")

	require.NoError(t, e.Handle(context.Background(), state))
	assert.Equal(t, HelloMessage, state.LastAssistantText())
}

func TestHandleMultiDomainUsesPlanner(t *testing.T) {
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RouteMultiDomain}}
	planner := &fakePlanner{answer: "Combined answer."}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{}, &fakeDocuments{},
		func(o *Options) { o.Planner = planner })
	state := newState("Compare Judge's stats to the travel policy")

	require.NoError(t, e.Handle(context.Background(), state))
	assert.True(t, planner.called)
	assert.Equal(t, "Combined answer.", state.LastAssistantText())
}

func TestHandleComposerErrorPropagatesWithoutAppending(t *testing.T) {
	boom := errors.New("model down")
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RoutePlayerStats}}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{err: boom}, &fakeDocuments{})
	state := newState("Tell me about Aaron Judge")

	err := e.Handle(context.Background(), state)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, state.LastAssistantText())
}

// End-to-end over real classifier and composer with canned model output:
// the final answer must be built from a prompt carrying all four hitting
// figures.
func TestHandlePlayerStatsEndToEnd(t *testing.T) {
	classifierModel := model.NewMockModel("classifier", "mock")
	classifierModel.AddResponse(
		"User Query: Tell me about Aaron Judge",
		`{"route": "PLAYER_STATS", "entities": {"name": "Aaron Judge", "team": "Yankees"}}`,
	)
	composerModel := model.NewMockModel("composer", "mock")

	hitting := core.HittingSeason{AVG: ".310", OPS: "1.020", HomeRuns: 58, RBI: 144}
	fetcher := &fakeFetcher{stats: core.PlayerStats{
		PlayerID: 592450, FullName: "Aaron Judge", Hitting: &hitting,
	}}

	e := New(
		classify.NewClassifier(classifierModel),
		&fakeResolver{id: 592450, ok: true},
		fetcher,
		compose.NewComposer(composerModel),
		&fakeDocuments{},
	)
	state := newState("Tell me about Aaron Judge")

	require.NoError(t, e.Handle(context.Background(), state))

	assert.Equal(t, core.RoutePlayerStats, state.Route)
	assert.Equal(t, 592450, state.PlayerID)

	// the mock composer model echoes its prompt back
	answer := state.LastAssistantText()
	for _, figure := range []string{"AVG: .310", "HR: 58", "OPS: 1.020", "RBI: 144"} {
		assert.Contains(t, answer, figure)
	}
	assert.Contains(t, answer, "Question: Tell me about Aaron Judge")
}

func TestHandleDocumentErrorPropagates(t *testing.T) {
	boom := errors.New("backend unavailable")
	classifier := &fakeClassifier{decision: classify.Decision{Route: core.RouteDocumentQA}}

	e := New(classifier, &fakeResolver{}, &fakeFetcher{}, &fakeComposer{}, &fakeDocuments{err: boom})
	state := newState("What is the policy?")

	err := e.Handle(context.Background(), state)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, state.LastAssistantText())
}
