// Package mlb implements a thin HTTP client for the MLB Stats API, covering
// the two endpoints the assistant needs: people search and hydrated season
// statistics.
package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dugoutai/dugout/core"
)

// DefaultBaseURL is the public MLB Stats API host.
const DefaultBaseURL = "https://statsapi.mlb.com"

// Options configure the client.
type Options struct {
	// BaseURL overrides the upstream host (primarily for tests).
	BaseURL string
	// HTTPClient overrides the transport. When nil a client with Timeout
	// is used.
	HTTPClient *http.Client
	// Timeout is the per-call budget applied to the default client.
	Timeout time.Duration
}

// Client talks to the MLB Stats API. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a client with a 10 second per-call timeout by default.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{baseURL: opts.BaseURL, http: httpClient}
}

type searchResponse struct {
	People []struct {
		ID          int    `json:"id"`
		FullName    string `json:"fullName"`
		Active      bool   `json:"active"`
		CurrentTeam struct {
			Name string `json:"name"`
		} `json:"currentTeam"`
	} `json:"people"`
}

// Search looks up players by name in the public directory. With activeOnly
// set, retired players are filtered out of the result.
func (c *Client) Search(ctx context.Context, name string, activeOnly bool) ([]core.PlayerRecord, error) {
	q := url.Values{"names": {name}}
	var resp searchResponse
	if err := c.get(ctx, "/api/v1/people/search", q, &resp); err != nil {
		return nil, err
	}

	var records []core.PlayerRecord
	for _, person := range resp.People {
		if activeOnly && !person.Active {
			continue
		}
		team := person.CurrentTeam.Name
		if team == "" {
			team = core.FreeAgentTeam
		}
		records = append(records, core.PlayerRecord{
			ID:       person.ID,
			FullName: person.FullName,
			Team:     team,
			Active:   person.Active,
		})
	}
	return records, nil
}

type statsResponse struct {
	People []struct {
		FullName string `json:"fullName"`
		Stats    []struct {
			Splits []struct {
				Stat struct {
					AVG      string `json:"avg"`
					OPS      string `json:"ops"`
					HomeRuns int    `json:"homeRuns"`
					RBI      int    `json:"rbi"`
				} `json:"stat"`
			} `json:"splits"`
		} `json:"stats"`
	} `json:"people"`
}

// PlayerStats fetches season hitting statistics for a player, hydrated for
// the given season year. Exactly the first split under the hitting/season
// grouping is used; when no splits exist the returned stats carry no
// hitting line.
func (c *Client) PlayerStats(ctx context.Context, playerID, season int) (core.PlayerStats, error) {
	hydrate := fmt.Sprintf("stats(group=[hitting],type=[season],season=%d)", season)
	q := url.Values{"hydrate": {hydrate}}

	var resp statsResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v1/people/%d", playerID), q, &resp); err != nil {
		return core.PlayerStats{}, err
	}
	if len(resp.People) == 0 {
		return core.PlayerStats{}, fmt.Errorf("player %d not found", playerID)
	}

	person := resp.People[0]
	stats := core.PlayerStats{PlayerID: playerID, FullName: person.FullName}
	for _, group := range person.Stats {
		if len(group.Splits) == 0 {
			continue
		}
		s := group.Splits[0].Stat
		hitting := core.EmptyHittingSeason()
		if s.AVG != "" {
			hitting.AVG = s.AVG
		}
		if s.OPS != "" {
			hitting.OPS = s.OPS
		}
		hitting.HomeRuns = s.HomeRuns
		hitting.RBI = s.RBI
		stats.Hitting = &hitting
		break
	}
	return stats, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mlb api %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mlb api %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mlb api %s: decode: %w", path, err)
	}
	return nil
}
