package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedModel struct {
	responses []*model.Response
	requests  []model.Request
	err       error
}

func (m *scriptedModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func (m *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "mock", SupportsTools: true}
}

type fakeResolver struct {
	id int
	ok bool
}

func (f *fakeResolver) Resolve(context.Context, string) (int, bool) { return f.id, f.ok }

type fakeFetcher struct {
	stats core.PlayerStats
}

func (f *fakeFetcher) Fetch(context.Context, int) core.PlayerStats { return f.stats }

type fakeDocuments struct {
	answer string
	err    error
}

func (f *fakeDocuments) Answer(context.Context, string) (string, error) { return f.answer, f.err }

func toolCall(id, name, args string) core.ToolCall {
	return core.ToolCall{ID: id, Name: name, Arguments: args}
}

func statsState(query string) *core.State {
	s := core.NewState()
	s.Append(core.UserMessage(query))
	return s
}

func defaultTools() []Tool {
	hitting := core.HittingSeason{AVG: ".310", OPS: "1.020", HomeRuns: 58, RBI: 144}
	return []Tool{
		NewPlayerSearchTool(&fakeResolver{id: 592450, ok: true}),
		NewPlayerStatsTool(&fakeFetcher{stats: core.PlayerStats{
			PlayerID: 592450, FullName: "Aaron Judge", Hitting: &hitting,
		}}),
		NewDocumentQueryTool(&fakeDocuments{answer: "Teams travel by charter flight."}),
	}
}

func TestRunWithoutToolCallsReturnsText(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		{Text: "Direct answer.", FinishReason: "stop"},
	}}

	out, err := New(m, defaultTools()).Run(context.Background(), statsState("question"))
	require.NoError(t, err)
	assert.Equal(t, "Direct answer.", out)
	assert.Len(t, m.requests, 1)
}

func TestRunExecutesToolChain(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		{ToolCalls: []core.ToolCall{toolCall("c1", "search_for_player", `{"name":"Aaron Judge"}`)}, FinishReason: "tool_calls"},
		{ToolCalls: []core.ToolCall{toolCall("c2", "get_player_statistics", `{"player_id":592450}`)}, FinishReason: "tool_calls"},
		{ToolCalls: []core.ToolCall{toolCall("c3", "query_document_knowledge_base", `{"query":"travel policy"}`)}, FinishReason: "tool_calls"},
		{Text: "Judge hit 58 homers; teams travel by charter.", FinishReason: "stop"},
	}}

	out, err := New(m, defaultTools()).Run(context.Background(),
		statsState("Compare Judge's season to the travel policy"))
	require.NoError(t, err)
	assert.Equal(t, "Judge hit 58 homers; teams travel by charter.", out)
	require.Len(t, m.requests, 4)

	// second request carries the search result as a tool turn
	second := m.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, core.RoleTool, last.Role)
	assert.Equal(t, "c1", last.ToolCallID)

	var searchResult map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Content), &searchResult))
	assert.Equal(t, float64(592450), searchResult["player_id"])
	assert.Equal(t, true, searchResult["found"])

	// fourth request carries the document answer
	fourth := m.requests[3].Messages
	assert.Contains(t, fourth[len(fourth)-1].Content, "charter flight")
}

func TestRunUnknownToolFedBackAsError(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		{ToolCalls: []core.ToolCall{toolCall("c1", "launch_rockets", `{}`)}, FinishReason: "tool_calls"},
		{Text: "I cannot do that.", FinishReason: "stop"},
	}}

	out, err := New(m, defaultTools()).Run(context.Background(), statsState("q"))
	require.NoError(t, err)
	assert.Equal(t, "I cannot do that.", out)

	second := m.requests[1].Messages
	assert.Contains(t, second[len(second)-1].Content, "unknown tool: launch_rockets")
}

func TestRunMalformedArgumentsFedBackAsError(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		{ToolCalls: []core.ToolCall{toolCall("c1", "search_for_player", `{not json`)}, FinishReason: "tool_calls"},
		{Text: "Could you rephrase?", FinishReason: "stop"},
	}}

	out, err := New(m, defaultTools()).Run(context.Background(), statsState("q"))
	require.NoError(t, err)
	assert.Equal(t, "Could you rephrase?", out)

	second := m.requests[1].Messages
	assert.Contains(t, second[len(second)-1].Content, "invalid arguments")
}

func TestRunToolErrorFedBackAsError(t *testing.T) {
	tools := []Tool{NewDocumentQueryTool(&fakeDocuments{err: errors.New("backend unavailable")})}
	m := &scriptedModel{responses: []*model.Response{
		{ToolCalls: []core.ToolCall{toolCall("c1", "query_document_knowledge_base", `{"query":"q"}`)}, FinishReason: "tool_calls"},
		{Text: "The knowledge base is unavailable right now.", FinishReason: "stop"},
	}}

	out, err := New(m, tools).Run(context.Background(), statsState("q"))
	require.NoError(t, err)
	assert.Equal(t, "The knowledge base is unavailable right now.", out)

	second := m.requests[1].Messages
	assert.Contains(t, second[len(second)-1].Content, "backend unavailable")
}

func TestRunIterationCap(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		{ToolCalls: []core.ToolCall{toolCall("c1", "search_for_player", `{"name":"Aaron Judge"}`)}, FinishReason: "tool_calls"},
	}}

	_, err := New(m, defaultTools(), func(o *Options) { o.MaxIterations = 3 }).
		Run(context.Background(), statsState("q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 3 iterations")
	assert.Len(t, m.requests, 3)
}

func TestRunModelErrorPropagates(t *testing.T) {
	boom := errors.New("model down")
	m := &scriptedModel{err: boom}

	_, err := New(m, defaultTools()).Run(context.Background(), statsState("q"))
	require.ErrorIs(t, err, boom)
}
