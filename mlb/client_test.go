package mlb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(func(o *Options) {
		o.BaseURL = srv.URL
		o.HTTPClient = srv.Client()
	})
	return client, srv
}

func TestSearchFiltersInactivePlayers(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/people/search", r.URL.Path)
		assert.Equal(t, "Aaron Judge", r.URL.Query().Get("names"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"people":[
			{"id":592450,"fullName":"Aaron Judge","active":true,"currentTeam":{"name":"New York Yankees"}},
			{"id":111111,"fullName":"Aaron Judge Sr","active":false,"currentTeam":{"name":"Retired FC"}}
		]}`))
	})
	defer srv.Close()

	records, err := client.Search(context.Background(), "Aaron Judge", true)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 592450, records[0].ID)
	assert.Equal(t, "New York Yankees", records[0].Team)
}

func TestSearchFreeAgentSentinel(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[{"id":42,"fullName":"Journey Man","active":true}]}`))
	})
	defer srv.Close()

	records, err := client.Search(context.Background(), "Journey Man", true)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Free Agent", records[0].Team)
}

func TestSearchUpstreamError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := client.Search(context.Background(), "Anyone", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestPlayerStatsFirstSplitWins(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/people/592450", r.URL.Path)
		assert.Equal(t, "stats(group=[hitting],type=[season],season=2025)", r.URL.Query().Get("hydrate"))
		_, _ = w.Write([]byte(`{"people":[{"fullName":"Aaron Judge","stats":[
			{"splits":[{"stat":{"avg":".310","ops":"1.020","homeRuns":58,"rbi":144}},{"stat":{"avg":".999"}}]}
		]}]}`))
	})
	defer srv.Close()

	stats, err := client.PlayerStats(context.Background(), 592450, 2025)
	require.NoError(t, err)
	require.True(t, stats.HasHitting())
	assert.Equal(t, ".310", stats.Hitting.AVG)
	assert.Equal(t, "1.020", stats.Hitting.OPS)
	assert.Equal(t, 58, stats.Hitting.HomeRuns)
	assert.Equal(t, 144, stats.Hitting.RBI)
	assert.Equal(t, "Aaron Judge", stats.FullName)
}

func TestPlayerStatsNoSplitsYieldsNoHitting(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[{"fullName":"Rookie Guy","stats":[{"splits":[]}]}]}`))
	})
	defer srv.Close()

	stats, err := client.PlayerStats(context.Background(), 7, 2025)
	require.NoError(t, err)
	assert.False(t, stats.HasHitting())
}

func TestPlayerStatsMissingFieldsDefaulted(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[{"fullName":"Sparse Stats","stats":[{"splits":[{"stat":{}}]}]}]}`))
	})
	defer srv.Close()

	stats, err := client.PlayerStats(context.Background(), 8, 2025)
	require.NoError(t, err)
	require.True(t, stats.HasHitting())
	assert.Equal(t, ".000", stats.Hitting.AVG)
	assert.Equal(t, ".000", stats.Hitting.OPS)
	assert.Equal(t, 0, stats.Hitting.HomeRuns)
	assert.Equal(t, 0, stats.Hitting.RBI)
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[]}`))
	})
	defer srv.Close()

	_, err := client.PlayerStats(context.Background(), 999, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
