package screening

import (
	"context"
	"sort"
	"sync"

	"github.com/braidfi/sanctionscreen/pkg/config"
	"golang.org/x/sync/errgroup"
)

// Match is one scored candidate returned from a search (spec §6).
type Match struct {
	Entity    *Entity
	Breakdown ScoreBreakdown
	Trace     TraceResult
}

// SearchService orchestrates normalize -> phonetic prefilter -> parallel
// scoring -> filter -> rank for a single query against the Index (spec
// §4.11). Grounded on the teacher's errgroup-based parallel detector
// fan-out (pkg/ml/aggregator.go).
type SearchService struct {
	index  *Index
	cfg    *config.Config
	scorer *EntityScorer
}

// NewSearchService constructs a SearchService bound to one index and
// config. cfg is validated; an invalid config is refused at construction
// rather than surfacing per-query.
func NewSearchService(idx *Index, cfg *config.Config) (*SearchService, error) {
	if idx == nil {
		return nil, newConfigurationMissing("SearchService.index")
	}
	if cfg == nil {
		return nil, newConfigurationMissing("SearchService.config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scorer, err := NewEntityScorer(cfg)
	if err != nil {
		return nil, err
	}
	return &SearchService{index: idx, cfg: cfg, scorer: scorer}, nil
}

// SearchOptions tunes a single Search call.
type SearchOptions struct {
	// Limit caps the number of returned matches. Zero means unbounded.
	Limit int
	// MinScore filters out matches scoring at or below this threshold.
	MinScore float64
	// Trace enables per-candidate ScoringContext recording (spec §4.12).
	// Matches are returned with their Trace populated when true.
	Trace bool
	// Source, if non-empty, narrows the candidate set to entries from this
	// source list before scoring (spec §4.12 step 2).
	Source SourceList
	// Type, if non-empty, narrows the candidate set to entries of this
	// entity type before scoring (spec §4.12 step 2).
	Type EntityType
}

// Search normalizes query, scores it against every index entry passing the
// phonetic prefilter, and returns matches above MinScore sorted by
// descending score (ties broken by ascending entity ID for determinism),
// truncated to Limit. If ctx is done before scoring completes it returns
// ErrCancelled together with the matches scored so far, without traces.
func (s *SearchService) Search(ctx context.Context, query *Entity, opts SearchOptions) ([]Match, error) {
	if s.index.Size() == 0 {
		return nil, ErrServiceUnavailable
	}

	normQuery, err := normalize(query, s.cfg)
	if err != nil {
		return nil, err
	}

	candidates := s.candidateSet(opts)

	var mu sync.Mutex
	var matches []Match

	g, gctx := errgroup.WithContext(ctx)
	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return ErrCancelled
			default:
			}

			if candidate.Prepared == nil || normQuery.Prepared == nil {
				return nil
			}
			if !phoneticallyCompatible(normQuery.Prepared.PrimaryNameTokens, candidate.Prepared.PrimaryNameTokens, s.cfg.PhoneticFilteringDisabled) {
				return nil
			}

			var sctx ScoringContext = Disabled()
			if opts.Trace {
				sctx = NewRecorder(newSessionID())
			}

			breakdown := s.scorer.Score(normQuery, candidate, sctx)
			if breakdown.TotalWeightedScore <= opts.MinScore {
				return nil
			}

			m := Match{Entity: candidate, Breakdown: breakdown}
			if opts.Trace {
				m.Trace = sctx.ToTrace()
			}

			mu.Lock()
			matches = append(matches, m)
			mu.Unlock()
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr != nil {
		for i := range matches {
			matches[i].Trace = TraceResult{}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Breakdown.TotalWeightedScore != matches[j].Breakdown.TotalWeightedScore {
			return matches[i].Breakdown.TotalWeightedScore > matches[j].Breakdown.TotalWeightedScore
		}
		return matches[i].Entity.ID < matches[j].Entity.ID
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, waitErr
}

// candidateSet implements spec §4.12 step 2: obtain the candidate set from
// the index, narrowed by Source/Type filters when present. Both filters
// narrow the same call to GetBySource+GetByType intersected; either alone
// uses the dedicated Index accessor directly.
func (s *SearchService) candidateSet(opts SearchOptions) []*Entity {
	switch {
	case opts.Source != "" && opts.Type != "":
		bySource := s.index.GetBySource(opts.Source)
		out := make([]*Entity, 0, len(bySource))
		for _, e := range bySource {
			if e.Type == opts.Type {
				out = append(out, e)
			}
		}
		return out
	case opts.Source != "":
		return s.index.GetBySource(opts.Source)
	case opts.Type != "":
		return s.index.GetByType(opts.Type)
	default:
		return s.index.GetAll()
	}
}
