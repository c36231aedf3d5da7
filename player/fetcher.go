package player

import (
	"context"
	"time"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
)

// StatsSource is the subset of the stats endpoint used for fetching.
type StatsSource interface {
	PlayerStats(ctx context.Context, playerID, season int) (core.PlayerStats, error)
}

// FetcherOptions configure a Fetcher.
type FetcherOptions struct {
	// Season overrides the season year; zero means the current calendar
	// year at fetch time.
	Season int
	Logger logging.Logger
}

// Fetcher retrieves season hitting statistics for a resolved player.
type Fetcher struct {
	src    StatsSource
	season int
	logger logging.Logger
}

// NewFetcher constructs a Fetcher over the given stats source.
func NewFetcher(src StatsSource, optFns ...func(o *FetcherOptions)) *Fetcher {
	opts := FetcherOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Fetcher{src: src, season: opts.Season, logger: logging.OrNoOp(opts.Logger)}
}

// Fetch returns the stats record for playerID, degrading to an empty record
// rather than failing: a zero identifier short-circuits without an upstream
// call, and upstream errors are logged at warning level and swallowed,
// preserving conversational continuity over correctness of the "no data
// available" signal.
func (f *Fetcher) Fetch(ctx context.Context, playerID int) core.PlayerStats {
	if playerID == 0 {
		return core.PlayerStats{}
	}
	season := f.season
	if season == 0 {
		season = time.Now().Year()
	}
	stats, err := f.src.PlayerStats(ctx, playerID, season)
	if err != nil {
		f.logger.Warn("stats fetch failed", "player_id", playerID, "season", season, "error", err.Error())
		return core.PlayerStats{PlayerID: playerID}
	}
	return stats
}
