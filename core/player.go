package core

// FreeAgentTeam is the sentinel team name for players without a current club.
const FreeAgentTeam = "Free Agent"

// PlayerRecord is a directory entry returned by the player search. Records
// are fetched fresh per request and never cached across requests.
type PlayerRecord struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Team     string `json:"team"`
	Active   bool   `json:"active"`
}

// HittingSeason holds one season's batting line. Fields absent upstream
// default to the documented zero-value sentinels.
type HittingSeason struct {
	AVG      string `json:"avg"`
	OPS      string `json:"ops"`
	HomeRuns int    `json:"home_runs"`
	RBI      int    `json:"rbi"`
}

// EmptyHittingSeason returns a line with every field at its sentinel.
func EmptyHittingSeason() HittingSeason {
	return HittingSeason{AVG: ".000", OPS: ".000"}
}

// PlayerStats is the season-statistics snapshot for a resolved player.
// Hitting is nil when the upstream record carried no hitting/season split;
// callers treat that as the degraded "no data available" case, not an error.
type PlayerStats struct {
	PlayerID int            `json:"player_id"`
	FullName string         `json:"full_name"`
	Hitting  *HittingSeason `json:"hitting,omitempty"`
}

// HasHitting reports whether a hitting/season split was found upstream.
func (s PlayerStats) HasHitting() bool { return s.Hitting != nil }
