// Package player turns candidate names into player identifiers and player
// identifiers into season statistics. Both operations degrade rather than
// fail: a resolution miss and an upstream outage look identical to the
// conversational flow, which always continues to an answer.
package player

import (
	"context"
	"regexp"
	"strings"

	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
)

// capitalized two-word token sequence, e.g. "Aaron Judge"
var nameRe = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)

// CandidateName picks the search term for a raw query: the extracted hint
// when present, else a heuristic two-word capitalized match, else the raw
// query itself. The degenerate raw-query case is expected to usually
// resolve to nothing.
func CandidateName(query, hint string) string {
	if hint != "" {
		return hint
	}
	if m := nameRe.FindString(query); m != "" {
		return m
	}
	return query
}

// Directory is the subset of the player directory used for resolution.
type Directory interface {
	Search(ctx context.Context, name string, activeOnly bool) ([]core.PlayerRecord, error)
}

// ResolverOptions configure a Resolver.
type ResolverOptions struct {
	// ActiveOnly filters the directory search to active players.
	ActiveOnly bool
	Logger     logging.Logger
}

// Resolver maps a candidate name to a unique player identifier with
// deterministic tie-breaking.
type Resolver struct {
	dir        Directory
	activeOnly bool
	logger     logging.Logger
}

// NewResolver constructs a Resolver over the given directory. Searches are
// restricted to active players unless overridden.
func NewResolver(dir Directory, optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{ActiveOnly: true}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{dir: dir, activeOnly: opts.ActiveOnly, logger: logging.OrNoOp(opts.Logger)}
}

// Resolve returns the identifier of the best match for name, or ok=false on
// a miss. Tie-break, in strict priority order: exact case-insensitive
// full-name match, first substring match, first record as returned. Exact
// match wins even when it appears later in upstream ordering than a
// substring match. Directory transport failures are reported as a miss and
// logged at warning level; the conversational flow must not see transport
// errors.
func (r *Resolver) Resolve(ctx context.Context, name string) (int, bool) {
	records, err := r.dir.Search(ctx, name, r.activeOnly)
	if err != nil {
		r.logger.Warn("player search failed", "name", name, "error", err.Error())
		return 0, false
	}
	if len(records) == 0 {
		return 0, false
	}

	target := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range records {
		if strings.ToLower(strings.TrimSpace(rec.FullName)) == target {
			return rec.ID, true
		}
	}
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.FullName), target) {
			return rec.ID, true
		}
	}
	return records[0].ID, true
}
